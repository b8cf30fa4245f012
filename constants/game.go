package constants

import "time"

// Game Loop Timing Constants
const (
	// FrameRate is the simulation frame rate, one bubble step per frame
	FrameRate = 60

	// FrameUpdateInterval is the frame tick interval (~60 FPS)
	FrameUpdateInterval = time.Second / FrameRate

	// SpawnInterval is the delay between spawner ticks
	SpawnInterval = 3000 * time.Millisecond

	// LoopInboxSize bounds the number of queued loop callbacks
	LoopInboxSize = 256
)

// Gameplay Constants
const (
	// BubbleSpeed is the base fall rate in playfield units per frame
	BubbleSpeed = 0.5

	// SpeedJitterMin and SpeedJitterSpan give per-bubble speed = base * (min + rand*span)
	SpeedJitterMin  = 0.8
	SpeedJitterSpan = 0.4

	// MaxBubbles caps concurrently alive bubbles
	MaxBubbles = 5

	// InitialLives is the starting life count
	InitialLives = 3

	// PointsPerPop is awarded for every eliminated bubble
	PointsPerPop = 10
)

// Playfield Geometry (simulation units, scaled to terminal cells by the renderer)
const (
	PlayfieldWidth  = 800.0
	PlayfieldHeight = 600.0

	// EdgeMargin keeps spawn x away from the side walls
	EdgeMargin = 50.0

	// BoundaryMargin is the distance above the floor at which bubbles are evicted
	BoundaryMargin = 120.0
)

// DefaultWords is the easy-to-recognize word set
var DefaultWords = []string{
	"cat", "dog", "red", "blue", "one", "two", "yes", "no",
	"sun", "moon", "car", "go", "up", "down", "ball", "book",
}

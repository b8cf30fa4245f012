package constants

// UI Layout Constants
const (
	// HeaderRows is reserved at the top for score and lives
	HeaderRows = 1

	// FooterRows is reserved at the bottom for the typed word prompt
	FooterRows = 1

	// DebugPanelLines is the number of recent debug lines kept
	DebugPanelLines = 6

	// PopEffectFrames is how long the hit burst stays on screen
	PopEffectFrames = 18

	// TypedMaxLen bounds the typed word buffer
	TypedMaxLen = 32
)

// Screen Text
const (
	TitleText     = "WORD POPPER"
	StartHint     = "say or type the word on a bubble to pop it | Enter: start | Ctrl+C: quit"
	GameOverText  = "GAME OVER"
	RestartHint   = "Enter: play again | Ctrl+C: quit"
	PausedText    = "PAUSED (Esc to resume)"
	PromptPrefix  = "> "
	NoSpeechLabel = "speech recognition unavailable: type words instead"
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "word-popper.log"
	MaxLogSize  = 10 * 1024 * 1024
)

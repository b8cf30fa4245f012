// Package config loads the static game parameters
// Precedence: defaults < TOML file < .env file < WORDPOP_* environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/lixenwraith/word-popper/constants"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Recognizer modes
const (
	RecognizerTyped   = "typed"   // keyboard only
	RecognizerBridge  = "bridge"  // websocket ASR bridge client
	RecognizerMQTT    = "mqtt"    // MQTT topic subscriber
	RecognizerBrowser = "browser" // browser page pushing Web Speech results to the debug server
)

// Config is the complete static configuration
type Config struct {
	Game        GameConfig        `toml:"game"`
	Playfield   PlayfieldConfig   `toml:"playfield"`
	Recognition RecognitionConfig `toml:"recognition"`
	Debug       DebugConfig       `toml:"debug"`
}

// GameConfig holds spawn, motion and scoring parameters
type GameConfig struct {
	SpawnIntervalMs int      `toml:"spawn_interval_ms"`
	BubbleSpeed     float64  `toml:"bubble_speed"`
	MaxBubbles      int      `toml:"max_bubbles"`
	InitialLives    int      `toml:"initial_lives"`
	FuzzyMatching   bool     `toml:"fuzzy_matching"`
	FuzzyRatio      float64  `toml:"fuzzy_ratio"`
	FrameRate       int      `toml:"frame_rate"`
	Seed            int64    `toml:"seed"` // 0 = seed from clock
	Words           []string `toml:"words"`
}

// PlayfieldConfig holds the simulation geometry
type PlayfieldConfig struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	EdgeMargin     float64 `toml:"edge_margin"`
	BoundaryMargin float64 `toml:"boundary_margin"`
}

// RecognitionConfig selects and tunes the speech source
type RecognitionConfig struct {
	Mode              string `toml:"mode"`
	Lang              string `toml:"lang"`
	MaxAlternatives   int    `toml:"max_alternatives"`
	RestartDelayMs    int    `toml:"restart_delay_ms"`
	RestartMaxDelayMs int    `toml:"restart_max_delay_ms"`
	MaxRestarts       int    `toml:"max_restarts"`

	BridgeURL string `toml:"bridge_url"`

	MQTTBroker   string `toml:"mqtt_broker"`
	MQTTClientID string `toml:"mqtt_client_id"`
	MQTTTopic    string `toml:"mqtt_topic"`
	MQTTUsername string `toml:"mqtt_username"`
	MQTTPassword string `toml:"mqtt_password"`
}

// DebugConfig enables the debug keys, panel and HTTP control surface
type DebugConfig struct {
	Enabled bool   `toml:"enabled"`
	APIAddr string `toml:"api_addr"` // empty = no HTTP server
}

// Default returns the built-in configuration
func Default() Config {
	words := make([]string, len(constants.DefaultWords))
	copy(words, constants.DefaultWords)

	return Config{
		Game: GameConfig{
			SpawnIntervalMs: int(constants.SpawnInterval / time.Millisecond),
			BubbleSpeed:     constants.BubbleSpeed,
			MaxBubbles:      constants.MaxBubbles,
			InitialLives:    constants.InitialLives,
			FuzzyMatching:   true,
			FuzzyRatio:      constants.FuzzyRatio,
			FrameRate:       constants.FrameRate,
			Words:           words,
		},
		Playfield: PlayfieldConfig{
			Width:          constants.PlayfieldWidth,
			Height:         constants.PlayfieldHeight,
			EdgeMargin:     constants.EdgeMargin,
			BoundaryMargin: constants.BoundaryMargin,
		},
		Recognition: RecognitionConfig{
			Mode:              RecognizerTyped,
			Lang:              constants.RecognitionLang,
			MaxAlternatives:   constants.MaxAlternatives,
			RestartDelayMs:    int(constants.RestartDelay / time.Millisecond),
			RestartMaxDelayMs: int(constants.RestartMaxDelay / time.Millisecond),
			MaxRestarts:       constants.MaxRestarts,
			BridgeURL:         "ws://localhost:8765/asr",
			MQTTBroker:        "tcp://localhost:1883",
			MQTTClientID:      "word-popper",
			MQTTTopic:         "wordpop/recognition",
		},
	}
}

// Load reads an optional TOML file and an optional .env file on top of the defaults
// Missing .env is not an error; a missing explicit TOML path is
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from WORDPOP_* environment variables
func (c *Config) ApplyEnv() error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(envInt("WORDPOP_SPAWN_INTERVAL_MS", &c.Game.SpawnIntervalMs))
	collect(envFloat("WORDPOP_BUBBLE_SPEED", &c.Game.BubbleSpeed))
	collect(envInt("WORDPOP_MAX_BUBBLES", &c.Game.MaxBubbles))
	collect(envInt("WORDPOP_INITIAL_LIVES", &c.Game.InitialLives))
	collect(envBool("WORDPOP_FUZZY", &c.Game.FuzzyMatching))
	collect(envInt("WORDPOP_FRAME_RATE", &c.Game.FrameRate))
	if v, ok := os.LookupEnv("WORDPOP_WORDS"); ok {
		c.Game.Words = splitWords(v)
	}

	envString("WORDPOP_RECOGNIZER", &c.Recognition.Mode)
	envString("WORDPOP_BRIDGE_URL", &c.Recognition.BridgeURL)
	envString("WORDPOP_MQTT_BROKER", &c.Recognition.MQTTBroker)
	envString("WORDPOP_MQTT_TOPIC", &c.Recognition.MQTTTopic)
	envString("WORDPOP_MQTT_USERNAME", &c.Recognition.MQTTUsername)
	envString("WORDPOP_MQTT_PASSWORD", &c.Recognition.MQTTPassword)
	collect(envInt("WORDPOP_MAX_RESTARTS", &c.Recognition.MaxRestarts))

	collect(envBool("WORDPOP_DEBUG", &c.Debug.Enabled))
	envString("WORDPOP_DEBUG_ADDR", &c.Debug.APIAddr)

	return errors.Join(errs...)
}

// Validate checks ranges and cross-field constraints
func (c *Config) Validate() error {
	g, p, r := c.Game, c.Playfield, c.Recognition

	switch {
	case g.SpawnIntervalMs <= 0:
		return fmt.Errorf("%w: spawn_interval_ms must be positive, got %d", ErrInvalid, g.SpawnIntervalMs)
	case g.BubbleSpeed <= 0:
		return fmt.Errorf("%w: bubble_speed must be positive, got %v", ErrInvalid, g.BubbleSpeed)
	case g.MaxBubbles <= 0:
		return fmt.Errorf("%w: max_bubbles must be positive, got %d", ErrInvalid, g.MaxBubbles)
	case g.InitialLives <= 0:
		return fmt.Errorf("%w: initial_lives must be positive, got %d", ErrInvalid, g.InitialLives)
	case g.FuzzyRatio <= 1:
		return fmt.Errorf("%w: fuzzy_ratio must exceed 1, got %v", ErrInvalid, g.FuzzyRatio)
	case g.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalid, g.FrameRate)
	case len(g.Words) == 0:
		return fmt.Errorf("%w: word list is empty", ErrInvalid)
	}
	for i, w := range g.Words {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("%w: word %d is empty", ErrInvalid, i)
		}
	}

	if p.Width <= 2*p.EdgeMargin {
		return fmt.Errorf("%w: playfield width %v leaves no room inside edge margin %v", ErrInvalid, p.Width, p.EdgeMargin)
	}
	if p.Height <= p.BoundaryMargin || p.BoundaryMargin < 0 || p.EdgeMargin < 0 {
		return fmt.Errorf("%w: playfield height %v with boundary margin %v", ErrInvalid, p.Height, p.BoundaryMargin)
	}

	switch r.Mode {
	case RecognizerTyped, RecognizerBrowser:
	case RecognizerBridge:
		if r.BridgeURL == "" {
			return fmt.Errorf("%w: bridge recognizer needs bridge_url", ErrInvalid)
		}
	case RecognizerMQTT:
		if r.MQTTBroker == "" || r.MQTTTopic == "" {
			return fmt.Errorf("%w: mqtt recognizer needs mqtt_broker and mqtt_topic", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown recognizer %q", ErrInvalid, r.Mode)
	}
	if r.MaxAlternatives < 1 || r.RestartDelayMs <= 0 || r.RestartMaxDelayMs < r.RestartDelayMs || r.MaxRestarts < 0 {
		return fmt.Errorf("%w: recognition limits (alternatives %d, delay %d..%d ms, restarts %d)",
			ErrInvalid, r.MaxAlternatives, r.RestartDelayMs, r.RestartMaxDelayMs, r.MaxRestarts)
	}
	return nil
}

// SpawnInterval returns the spawner period
func (g GameConfig) SpawnInterval() time.Duration {
	return time.Duration(g.SpawnIntervalMs) * time.Millisecond
}

// FrameInterval returns the simulation frame period
func (g GameConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(g.FrameRate)
}

// RestartDelay returns the first restart delay
func (r RecognitionConfig) RestartDelay() time.Duration {
	return time.Duration(r.RestartDelayMs) * time.Millisecond
}

// RestartMaxDelay returns the restart delay cap
func (r RecognitionConfig) RestartMaxDelay() time.Duration {
	return time.Duration(r.RestartMaxDelayMs) * time.Millisecond
}

// EvictionLine returns the y beyond which a bubble is evicted
func (p PlayfieldConfig) EvictionLine() float64 {
	return p.Height - p.BoundaryMargin
}

func splitWords(v string) []string {
	var words []string
	for _, w := range strings.Split(v, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

package bot

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Engine lifecycle modes. Persistent keeps one process alive and restarts
// it on failure; oneshot spawns a fresh process per request.
const (
	ModePersistent = "persistent"
	ModeOneShot    = "oneshot"
)

// Config is the bot's whole configuration surface.
type Config struct {
	BinaryPath    string        `validate:"required"`
	EngineMode    string        `validate:"oneof=persistent oneshot"`
	EngineTimeout time.Duration `validate:"gt=0"`

	BaseURL    string `validate:"required,url"`
	PlayerID   string `validate:"required"`
	AuthCookie string `validate:"required"`

	GamesCheckInterval time.Duration `validate:"gt=0"`
	MoveCheckInterval  time.Duration `validate:"gt=0"`
	RequestDelay       time.Duration `validate:"gte=0"`
	ErrorBackoff       time.Duration `validate:"gt=0"`

	// StatePath enables the tracking store; empty runs memory-only.
	StatePath string
	// Prompt overrides the engine's reply decoration.
	Prompt string
}

// DefaultConfig mirrors the intervals the bot has always run with.
func DefaultConfig() Config {
	return Config{
		EngineMode:         ModePersistent,
		EngineTimeout:      60 * time.Second,
		BaseURL:            "https://www.eothello.com",
		GamesCheckInterval: 10 * time.Minute,
		MoveCheckInterval:  time.Minute,
		RequestDelay:       time.Second,
		ErrorBackoff:       30 * time.Second,
	}
}

// Validate checks the configuration before anything gets wired up.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

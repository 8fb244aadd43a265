package effect

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxInFlight = 32
	defaultMaxWait     = 30 * time.Second
)

// Config holds Registry tunables.
type Config struct {
	// MaxInFlight caps effects running at once (timers excluded).
	MaxInFlight int
	// MaxWait bounds how long an effect waits for a free slot before failing as too busy.
	MaxWait time.Duration
	Logger  *zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = defaultMaxInFlight
	}
	if c.MaxWait <= 0 {
		c.MaxWait = defaultMaxWait
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

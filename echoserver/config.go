package echoserver

import (
	"fmt"
	"time"
)

// Config is the echo server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string

	// Delay holds every chat reply back, to exercise the client's busy state
	// and timeout handling.
	Delay time.Duration

	// FailStatus, when non-zero, makes every chat request answer with this
	// HTTP status instead of a reply. Must be an error status (400-599).
	FailStatus int

	// OmitResponse answers 200 with an empty JSON object, the shape clients
	// must degrade gracefully on.
	OmitResponse bool
}

// Validate rejects settings that would not reproduce what they claim to.
func (c Config) Validate() error {
	if c.FailStatus != 0 && (c.FailStatus < 400 || c.FailStatus > 599) {
		return fmt.Errorf("invalid fail status %d: must be between 400 and 599", c.FailStatus)
	}
	if c.Delay < 0 {
		return fmt.Errorf("invalid delay %s: must not be negative", c.Delay)
	}
	return nil
}

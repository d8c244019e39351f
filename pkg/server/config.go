package server

import (
	"fmt"
	"net/http"
	"time"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Address is the listen address. Default: ":8080".
	Address string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10 seconds.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// ValidateConfig checks for values http.Server cannot use.
func (c *ServerConfig) ValidateConfig() error {
	if c.Address == "" {
		return fmt.Errorf("server: address is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("server: shutdown timeout must be positive")
	}
	return nil
}

// LiveConfig configures live navigation connections.
type LiveConfig struct {
	// ReadTimeout is the maximum time to wait for a message or pong.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming message.
	// Default: 16KB.
	MaxMessageSize int64

	// CheckOrigin overrides the same-origin check of the upgrader.
	CheckOrigin func(r *http.Request) bool
}

// DefaultLiveConfig returns a LiveConfig with sensible defaults.
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    16 * 1024,
	}
}

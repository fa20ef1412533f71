package logging

import (
	"fmt"
	"time"
)

// Sink names understood by the hitsim binary.
const (
	SinkConsole   = "console"
	SinkJSON      = "json"
	SinkMemory    = "memory"
	SinkWebSocket = "websocket"
)

type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	WebSocket        WebSocketConfig
	DropWarnInterval time.Duration
}

type JSONConfig struct {
	FilePath      string
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	// Compact drops the payload from console lines.
	Compact bool
}

type WebSocketConfig struct {
	ListenAddr   string
	Path         string
	WriteTimeout time.Duration
	ClientBuffer int
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{SinkConsole},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
		WebSocket: WebSocketConfig{
			Path:         "/events",
			WriteTimeout: 2 * time.Second,
			ClientBuffer: 64,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

// Validate rejects sink names the router cannot build.
func (c Config) Validate() error {
	for _, name := range c.EnabledSinks {
		switch name {
		case SinkConsole, SinkJSON, SinkMemory, SinkWebSocket:
		default:
			return fmt.Errorf("logging: unknown sink %q", name)
		}
	}
	if c.HasSink(SinkWebSocket) && c.WebSocket.ListenAddr == "" {
		return fmt.Errorf("logging: websocket sink requires a listen address")
	}
	return nil
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}

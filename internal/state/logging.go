package state

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EventLog appends session events to a file when enabled. A nil EventLog logs nothing.
// Line format: timestamp (RFC3339) | level | event | status | identifier? | message?
type EventLog struct {
	Path    string
	Enabled bool
	mu      sync.Mutex
}

// NewEventLog writes to log/client.log when enabled
func NewEventLog(enabled bool) *EventLog {
	return &EventLog{Path: filepath.Join("log", "client.log"), Enabled: enabled}
}

// LogSessionEvent appends one event, failures are ignored
func (l *EventLog) LogSessionEvent(level, event, status, identifier, message string) {
	if l == nil || !l.Enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.Path), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	parts := []string{time.Now().UTC().Format(time.RFC3339), level, event, status}
	if identifier != "" {
		parts = append(parts, identifier)
	}
	if message != "" {
		parts = append(parts, message)
	}
	_, _ = f.WriteString(strings.Join(parts, " | ") + "\n")
}

package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

var loggingEnabled atomic.Bool

func init() {
	loggingEnabled.Store(strings.EqualFold(os.Getenv("LOGGING"), "true"))
}

// SetLogging turns the auth log on or off
func SetLogging(enabled bool) {
	loggingEnabled.Store(enabled)
}

// AuthLogPath is where LogAuthAttempt appends
var AuthLogPath = "log/auth.log"

// LogAuthAttempt appends an authentication attempt record to AuthLogPath.
// Fields: timestamp (RFC3339) | level | action | status | identifier? | message?
// action: Login|Register|Refresh|Logout
// status: Success|Fail
func LogAuthAttempt(level string, action string, status string, identifier string, message string) {
	if !loggingEnabled.Load() {
		return
	}

	if err := os.MkdirAll(filepath.Dir(AuthLogPath), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(AuthLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	parts := []string{time.Now().UTC().Format(time.RFC3339), level, action, status}
	if identifier != "" {
		parts = append(parts, identifier)
	}
	if message != "" {
		parts = append(parts, message)
	}
	_, _ = f.WriteString(strings.Join(parts, " | ") + "\n")
}

package logging

import (
	"log"
	"os"
)

var debugEnabled = os.Getenv("DEBUG") == "true"

// SetDebug toggles Debug output at runtime.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Info logs an informational message (always shown)
func Info(subsystem, format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
}

// Warn logs a recoverable failure (always shown)
func Warn(subsystem, format string, args ...any) {
	log.Printf("[%s] Warning: "+format, append([]any{subsystem}, args...)...)
}

// Debug logs a debug message (only shown if DEBUG=true)
func Debug(subsystem, format string, args ...any) {
	if debugEnabled {
		log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
	}
}

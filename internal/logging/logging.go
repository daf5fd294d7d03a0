// Package logging holds the diagnostic switch shared by the services.
// Regular messages go straight through the standard logger.
package logging

import (
	"log"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug turns diagnostic messages on or off
func SetDebug(on bool) {
	debug.Store(on)
}

// DebugEnabled reports whether diagnostic messages are written
func DebugEnabled() bool {
	return debug.Load()
}

// Debugf logs a diagnostic message when debug logging is enabled
func Debugf(format string, args ...interface{}) {
	if debug.Load() {
		log.Printf("[debug] "+format, args...)
	}
}

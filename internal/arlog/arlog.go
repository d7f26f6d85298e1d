// Package arlog is a thin structured-logging wrapper around the standard
// library log package: an Info/Warn/Debug level scheme with a global
// Verbose gate for the debug tier, backed by a single *log.Logger writing
// timestamped, file-annotated lines to stderr.
package arlog

import (
	"fmt"
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

// Verbose gates Debugf output. Off by default so the hot path never pays
// for formatting a log line per frame.
var Verbose = false

// Infof logs a state-transition or lifecycle message.
func Infof(format string, args ...any) {
	std.Output(2, "INFO  "+fmt.Sprintf(format, args...))
}

// Warnf logs a recoverable-but-notable condition (fallback features,
// tracker loss).
func Warnf(format string, args ...any) {
	std.Output(2, "WARN  "+fmt.Sprintf(format, args...))
}

// Debugf logs verbose per-frame diagnostics; a no-op unless Verbose is set.
func Debugf(format string, args ...any) {
	if !Verbose {
		return
	}
	std.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
}

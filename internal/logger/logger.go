package logger

import (
	"log"
	"os"
	"sync/atomic"
)

var debug atomic.Bool

func init() {
	debug.Store(os.Getenv("DEBUG") == "1")
}

// SetDebug turns DebugLog output on or off regardless of the DEBUG env var.
func SetDebug(on bool) {
	debug.Store(on)
}

func DebugLog(format string, args ...any) {
	if debug.Load() {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

func Warnf(format string, args ...any) {
	log.Printf("[WARN] "+format, args...)
}

func Errorf(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}

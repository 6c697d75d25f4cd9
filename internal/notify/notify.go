// Package notify shows desktop notifications.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"omniocr/internal/logger"
)

const appName = "OmniOCR"

// send is replaced in tests.
var send = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// BatchDone reports a finished batch run.
func (n *Notifier) BatchDone(dir string, succeeded, failed int) {
	msg := fmt.Sprintf("%d files recognised in %s", succeeded, dir)
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed", failed)
	}
	n.notify("batch finished", msg)
}

func (n *Notifier) Error(msg string) {
	n.notify("batch failed", msg)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	// a missing notification daemon is logged, not returned
	if err := send(appName+": "+title, message); err != nil {
		logger.DebugLog("[notify]: %v", err)
	}
}

package logsvc

import (
	"io"
	"log"

	"github.com/sigimobiliare/sig/core"
)

// NewTestLogger returns a logger that discards its output and never reports to rollbar.
func NewTestLogger(conf *core.Config) *RollbarLogger {
	l := NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	l.Enable(false)
	return l
}

package server

import (
	"fmt"
	"time"

	"github.com/df07/go-layered-materials/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// WebLogger implements core.Logger by forwarding messages to a console
// channel and to the server log
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	server      core.Logger
	debug       bool
}

// NewWebLogger creates a new web logger for a specific render. Messages are
// also written to server, which may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, server core.Logger) *WebLogger {
	if server == nil {
		server = core.NewNopLogger()
	}
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		server:      server,
	}
}

// SetDebug toggles forwarding of debug messages to the console
func (wl *WebLogger) SetDebug(enabled bool) {
	wl.debug = enabled
}

func (wl *WebLogger) Debugf(format string, args ...any) {
	wl.server.Debugf("%s: "+format, append([]any{wl.renderID}, args...)...)
	if wl.debug {
		wl.send("debug", format, args...)
	}
}

func (wl *WebLogger) Infof(format string, args ...any) {
	wl.server.Infof("%s: "+format, append([]any{wl.renderID}, args...)...)
	wl.send("info", format, args...)
}

func (wl *WebLogger) Warnf(format string, args ...any) {
	wl.server.Warnf("%s: "+format, append([]any{wl.renderID}, args...)...)
	wl.send("warning", format, args...)
}

func (wl *WebLogger) Errorf(format string, args ...any) {
	wl.server.Errorf("%s: "+format, append([]any{wl.renderID}, args...)...)
	wl.send("error", format, args...)
}

// send forwards a message to the console channel without blocking
func (wl *WebLogger) send(level, format string, args ...any) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block)
	}
}

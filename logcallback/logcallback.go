// Package logcallback provides a rotastream.Callback that writes every
// rotation step to a charmbracelet logger. Steps are logged at debug level;
// failures are logged at error level.
package logcallback

import (
	"time"

	"github.com/charmbracelet/log"
	"golift.io/rotastream"
)

// Logger logs rotations. The zero value logs to the charmbracelet default logger.
type Logger struct {
	*log.Logger
}

// New returns a logging callback. A nil logger means log.Default().
func New(logger *log.Logger) *Logger {
	return &Logger{Logger: logger}
}

func (l *Logger) logger() *log.Logger {
	if l.Logger == nil {
		return log.Default()
	}

	return l.Logger
}

// OnTrigger satisfies the rotastream.Callback interface.
func (l *Logger) OnTrigger(policy rotastream.Policy, instant time.Time) {
	l.logger().Debug("rotation trigger", "policy", policy, "instant", instant)
}

// OnClose satisfies the rotastream.Callback interface.
func (l *Logger) OnClose(policy rotastream.Policy, instant time.Time, _ rotastream.Sink) {
	l.logger().Debug("file close", "policy", policy, "instant", instant)
}

// OnOpen satisfies the rotastream.Callback interface.
func (l *Logger) OnOpen(policy rotastream.Policy, instant time.Time, _ rotastream.Sink) {
	l.logger().Debug("file open", "policy", policy, "instant", instant)
}

// OnSuccess satisfies the rotastream.Callback interface.
func (l *Logger) OnSuccess(policy rotastream.Policy, instant time.Time, archive string) {
	l.logger().Debug("rotation success", "policy", policy, "instant", instant, "file", archive)
}

// OnFailure satisfies the rotastream.Callback interface.
func (l *Logger) OnFailure(policy rotastream.Policy, instant time.Time, archive string, err error) {
	l.logger().Error("rotation failure", "policy", policy, "instant", instant, "file", archive, "err", err)
}

// Our Logger must satisfy a rotastream.Callback.
var _ rotastream.Callback = (*Logger)(nil)

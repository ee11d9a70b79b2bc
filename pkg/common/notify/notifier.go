package notify

import (
	log "github.com/sirupsen/logrus"
)

type Severity int

const (
	Success Severity = iota
	Error
	Info
	Loading
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Loading:
		return "loading"
	default:
		return "info"
	}
}

// Notifier is the fire-and-forget boundary for user-facing outcomes.
// Presentation and auto-dismiss timing belong to the consumer.
type Notifier interface {
	Notify(message string, severity Severity)
}

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(message string, severity Severity) {
	entry := log.WithField("severity", severity.String())
	if severity == Error {
		entry.Warn(message)
		return
	}
	entry.Info(message)
}

var _ Notifier = (*LogNotifier)(nil)

package vfs

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/modvfs/modvfs/pkg/logging"
)

// Notifier surfaces a user-visible message. The host application supplies its
// own implementation; the default logs through zerolog.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify calls f.
func (f NotifierFunc) Notify(message string) { f(message) }

// Monitor forwards engine log lines into the application log. If the log
// subscription dies it raises a single notification; engine logging failure
// is diagnostic loss, not a launch failure.
type Monitor struct {
	logger   zerolog.Logger
	notifier Notifier

	failOnce sync.Once
}

// NewMonitor creates a log monitor. notifier may be nil, in which case
// subscription failure is only logged.
func NewMonitor(notifier Notifier) *Monitor {
	return &Monitor{
		logger:   logging.GetLogger("vfs.monitor"),
		notifier: notifier,
	}
}

// Attach subscribes the monitor to the capability's log stream.
func (m *Monitor) Attach(capability Capability) {
	capability.SubscribeLogMessages(m.HandleLine, m.handleError)
}

// HandleLine decodes and forwards one raw engine log line. It always returns
// true: the monitor never terminates the subscription from its side.
func (m *Monitor) HandleLine(raw string) bool {
	line, ok := ParseLine(raw)
	if !ok {
		m.logger.Warn().Str("raw", raw).Msg("unrecognized engine log line")
		return true
	}

	evt := m.event(line.Severity)
	evt.Int("pid", line.PID).Int("tid", line.TID).Str("time", line.Timestamp).Msg(line.Text)
	return true
}

func (m *Monitor) event(sev Severity) *zerolog.Event {
	switch sev {
	case SeverityDebug:
		return m.logger.Debug()
	case SeverityInfo:
		return m.logger.Info()
	case SeverityError:
		return m.logger.Error()
	default:
		return m.logger.Warn()
	}
}

// handleError reports the death of the log subscription exactly once.
func (m *Monitor) handleError(err error) {
	m.failOnce.Do(func() {
		m.logger.Error().Err(err).Msg("engine log monitor died")
		if m.notifier != nil {
			m.notifier.Notify("Virtual filesystem log monitoring stopped; launches are unaffected but engine diagnostics are lost.")
		}
	})
}

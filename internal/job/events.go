package job

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one progress line of a run
type Event struct {
	Time    time.Time
	Level   logrus.Level
	Message string
}

// Line renders the event the way the log box shows it
func (e Event) Line() string {
	return fmt.Sprintf("%s - %s", e.Time.Format("15:04:05"), e.Message)
}

// emit publishes an event and mirrors it to the logger. A full channel
// drops the event.
func (r *Runner) emit(level logrus.Level, format string, args ...interface{}) {
	ev := Event{
		Time:    r.now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	}

	r.logger.Log(level, ev.Message)
	if r.events == nil {
		return
	}

	select {
	case r.events <- ev:
	default:
		r.logger.Debugf("Event channel full, dropping: %s", ev.Message)
	}
}

func (r *Runner) info(format string, args ...interface{}) {
	r.emit(logrus.InfoLevel, format, args...)
}

func (r *Runner) warn(format string, args ...interface{}) {
	r.emit(logrus.WarnLevel, format, args...)
}

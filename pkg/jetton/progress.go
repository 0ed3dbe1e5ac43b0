package jetton

import (
	"github.com/smartcontractkit/chainlink-common/pkg/logger"
)

// Progress is a single notification of CreateJetton. Payload carries the address
// relevant to State, if any. Err is set only on the final notification of a
// failed run.
type Progress struct {
	State   DeployState
	Err     error
	Payload string
}

// ProgressSink receives progress synchronously. Implementations must return
// quickly; a panic is recovered and logged.
type ProgressSink interface {
	OnProgress(p Progress)
}

type ProgressFunc func(p Progress)

func (f ProgressFunc) OnProgress(p Progress) {
	f(p)
}

type nopProgress struct{}

func (nopProgress) OnProgress(Progress) {}

// NopProgress discards all notifications.
var NopProgress ProgressSink = nopProgress{}

type loggingProgress struct {
	lggr logger.Logger
}

// LoggingProgress writes every notification to lggr.
func LoggingProgress(lggr logger.Logger) ProgressSink {
	return &loggingProgress{lggr: logger.Named(lggr, "Progress")}
}

func (l *loggingProgress) OnProgress(p Progress) {
	if p.Err != nil {
		l.lggr.Errorw("jetton deployment failed", "state", p.State.String(), "err", p.Err)
		return
	}
	l.lggr.Infow("jetton deployment progress", "state", p.State.String(), "payload", p.Payload)
}

type fanoutProgress struct {
	lggr  logger.Logger
	sinks []ProgressSink
}

// FanoutProgress forwards each notification to all sinks in order. A panicking
// sink does not keep the notification from the others.
func FanoutProgress(lggr logger.Logger, sinks ...ProgressSink) ProgressSink {
	return &fanoutProgress{lggr: lggr, sinks: sinks}
}

func (f *fanoutProgress) OnProgress(p Progress) {
	for _, s := range f.sinks {
		notify(f.lggr, s, p)
	}
}

func notify(lggr logger.Logger, sink ProgressSink, p Progress) {
	defer func() {
		if r := recover(); r != nil {
			lggr.Errorw("progress sink panicked", "state", p.State.String(), "panic", r)
		}
	}()
	sink.OnProgress(p)
}

package engine

import (
	"github.com/zeusync/focusar/internal/core/events/bus"
	"github.com/zeusync/focusar/internal/core/focus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
)

// LogActivations logs the caption of every activation at info level.
func LogActivations(eb bus.EventBus, logger log.Log) (bus.Subscription, error) {
	l := log.OrNop(logger).With(log.String("component", "activations"))
	return eb.Subscribe(focus.EventActivated, func(ev bus.Event) error {
		act, ok := ev.Data().(focus.Activation)
		if !ok {
			return nil
		}
		l.Info(presentation.Caption(act.ID, act.Text),
			log.String("target", act.ID),
			log.String("audio", act.Audio),
			log.Duration("at", ev.Timestamp()),
		)
		return nil
	})
}

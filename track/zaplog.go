package track

import (
	"go.uber.org/zap"

	"github.com/wippyai/sharedref"
)

// LogObserver writes lifecycle events to a zap logger at debug level,
// except promote misses, which are logged at info level: a miss is the
// signal callers usually grep for when a weak cache goes cold.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer over log. A nil logger falls back
// to the library logger.
func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = sharedref.Logger()
	}
	return &LogObserver{log: log}
}

// OnHandleEvent implements sharedref.Observer.
func (o *LogObserver) OnHandleEvent(e sharedref.Event) {
	fields := []zap.Field{
		zap.Uint64("block", e.Block),
		zap.String("mode", e.Mode.String()),
	}
	if e.Label != "" {
		fields = append(fields, zap.String("label", e.Label))
	}

	if e.Type == sharedref.EventPromoteMiss {
		o.log.Info("promote miss", fields...)
		return
	}
	o.log.Debug(e.Type.String(), fields...)
}

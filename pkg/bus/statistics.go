package bus

import (
	"time"

	"go.uber.org/zap"
)

// Statistics is a point-in-time snapshot of the router's counters.
type Statistics struct {
	RunTime       time.Duration
	PostCount     uint64
	PostFails     uint64
	DispatchCount uint64
	DispatchFails uint64
	Throughput    float64
}

// Print logs the snapshot in one line, the shape the CLI reports after a run.
func (s Statistics) Print(log *zap.Logger) {
	log.Info("router statistics",
		zap.Duration("run_time", s.RunTime),
		zap.Uint64("posted", s.PostCount),
		zap.Uint64("post_fails", s.PostFails),
		zap.Uint64("dispatched", s.DispatchCount),
		zap.Uint64("dispatch_fails", s.DispatchFails),
		zap.Float64("throughput", s.Throughput))
}

// Package simulation drives a backtest: it advances the replay feed one tick
// at a time, lets the engine react to each quote, and publishes the tick to
// strategy handlers once the engine's bookkeeping for it is done.
package simulation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/broker"
	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/datasource/replay"
)

// ErrEndOfData ends the run loop once every subscribed stream is exhausted.
var ErrEndOfData = errors.New("end of data")

type Runner struct {
	logger *zap.Logger
	router *bus.Router
	feed   *replay.Feed
	engine *broker.Engine
	bars   *Aggregator
}

func NewRunner(logger *zap.Logger, router *bus.Router, feed *replay.Feed, engine *broker.Engine, bars *Aggregator) *Runner {
	return &Runner{
		logger: logger,
		router: router,
		feed:   feed,
		engine: engine,
		bars:   bars,
	}
}

// Run replays the feed to exhaustion. Between any two ticks the router drains
// every queued event, so a strategy handling tick N has already seen the
// stop-loss, take-profit and pending-order fills that tick N caused.
func (r *Runner) Run(ctx context.Context) error {
	go r.router.ExecLoop(ctx, r.step)

	err := <-r.router.Done()
	if errors.Is(err, ErrEndOfData) {
		return nil
	}
	return err
}

func (r *Runner) step() error {
	if !r.feed.Advance() {
		return ErrEndOfData
	}

	tick, _ := r.feed.Last()
	r.engine.MonitorPass(tick.TimeStamp)

	if err := r.router.Post(bus.TickEvent, tick); err != nil {
		r.logger.Error("unable to post tick event", zap.Error(err))
	}
	if r.bars != nil {
		if err := r.bars.OnTick(tick); err != nil {
			r.logger.Warn("unable to aggregate ticks", zap.Error(err))
		}
	}
	return nil
}

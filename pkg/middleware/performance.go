package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
)

type handlerTiming struct {
	total time.Duration
	count int64
}

func (t *handlerTiming) observe(start time.Time) {
	t.total += time.Since(start)
	t.count++
}

func (t *handlerTiming) fields(name string) []zap.Field {
	if t.count == 0 {
		return nil
	}
	return []zap.Field{
		zap.Duration(name+"_avg_duration", t.total/time.Duration(t.count)),
		zap.Duration(name+"_total_duration", t.total),
	}
}

// Performance times the downstream handler of each event type.
type Performance struct {
	logger *zap.Logger

	tick           handlerTiming
	bar            handlerTiming
	snapshot       handlerTiming
	positionOpened handlerTiming
	positionClosed handlerTiming
	deal           handlerTiming
}

func NewPerformance(logger *zap.Logger) *Performance {
	return &Performance{
		logger: logger,
	}
}

func (p *Performance) WithTick(handler bus.TickEventHandler) bus.TickEventHandler {
	return func(ctx context.Context, tick common.Tick) {
		start := time.Now()
		handler(ctx, tick)
		p.tick.observe(start)
	}
}

func (p *Performance) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		start := time.Now()
		handler(ctx, bar)
		p.bar.observe(start)
	}
}

func (p *Performance) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, snapshot common.Snapshot) {
		start := time.Now()
		handler(ctx, snapshot)
		p.snapshot.observe(start)
	}
}

func (p *Performance) WithPositionOpened(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		start := time.Now()
		handler(ctx, position)
		p.positionOpened.observe(start)
	}
}

func (p *Performance) WithPositionClosed(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		start := time.Now()
		handler(ctx, position)
		p.positionClosed.observe(start)
	}
}

func (p *Performance) WithDeal(handler bus.DealEventHandler) bus.DealEventHandler {
	return func(ctx context.Context, deal common.Deal) {
		start := time.Now()
		handler(ctx, deal)
		p.deal.observe(start)
	}
}

func (p *Performance) PrintStatistics() {
	var fields []zap.Field
	fields = append(fields, p.tick.fields("tick")...)
	fields = append(fields, p.bar.fields("bar")...)
	fields = append(fields, p.snapshot.fields("snapshot")...)
	fields = append(fields, p.positionOpened.fields("position_open")...)
	fields = append(fields, p.positionClosed.fields("position_closed")...)
	fields = append(fields, p.deal.fields("deal")...)

	if len(fields) == 0 {
		p.logger.Info("no handler timings recorded")
		return
	}
	p.logger.Info("handler performance", fields...)
}

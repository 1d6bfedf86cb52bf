package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
)

type Telemetry struct {
	logger *zap.Logger

	tickEventCounter            int64
	barEventCounter             int64
	snapshotEventCounter        int64
	positionOpenedEventCounter  int64
	positionClosedEventCounter  int64
	positionUpdatedEventCounter int64
	orderEventCounter           int64
	orderRejectedEventCounter   int64
	dealEventCounter            int64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithTick(handler bus.TickEventHandler) bus.TickEventHandler {
	return func(ctx context.Context, tick common.Tick) {
		t.tickEventCounter++
		handler(ctx, tick)
	}
}

func (t *Telemetry) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		t.barEventCounter++
		handler(ctx, bar)
	}
}

func (t *Telemetry) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, snapshot common.Snapshot) {
		t.snapshotEventCounter++
		handler(ctx, snapshot)
	}
}

func (t *Telemetry) WithPositionOpened(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionOpenedEventCounter++
		handler(ctx, position)
	}
}

func (t *Telemetry) WithPositionClosed(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionClosedEventCounter++
		handler(ctx, position)
	}
}

func (t *Telemetry) WithPositionUpdated(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionUpdatedEventCounter++
		handler(ctx, position)
	}
}

func (t *Telemetry) WithOrder(handler bus.OrderEventHandler) bus.OrderEventHandler {
	return func(ctx context.Context, order common.Order) {
		t.orderEventCounter++
		handler(ctx, order)
	}
}

func (t *Telemetry) WithOrderRejected(handler bus.RejectionEventHandler) bus.RejectionEventHandler {
	return func(ctx context.Context, result common.TradeResult) {
		t.orderRejectedEventCounter++
		handler(ctx, result)
	}
}

func (t *Telemetry) WithDeal(handler bus.DealEventHandler) bus.DealEventHandler {
	return func(ctx context.Context, deal common.Deal) {
		t.dealEventCounter++
		handler(ctx, deal)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("event statistics",
		zap.Int64("tick_events", t.tickEventCounter),
		zap.Int64("bar_events", t.barEventCounter),
		zap.Int64("snapshot_events", t.snapshotEventCounter),
		zap.Int64("position_opened_events", t.positionOpenedEventCounter),
		zap.Int64("position_closed_events", t.positionClosedEventCounter),
		zap.Int64("position_updated_events", t.positionUpdatedEventCounter),
		zap.Int64("order_events", t.orderEventCounter),
		zap.Int64("order_rejected_events", t.orderRejectedEventCounter),
		zap.Int64("deal_events", t.dealEventCounter))
}

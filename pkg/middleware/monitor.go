package middleware

import (
	"context"
	"log/slog"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
)

type MonitorFlags uint16

//goland:noinspection GoUnusedConst
const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorTicks
	MonitorBars
	MonitorSnapshots
	MonitorPositionsOpened
	MonitorPositionsClosed
	MonitorPositionsUpdated
	MonitorOrders
	MonitorOrdersRejected
	MonitorDeals
)

type Monitor struct {
	flags MonitorFlags
}

func NewMonitor(flags MonitorFlags) *Monitor {
	return &Monitor{
		flags: flags,
	}
}

func (m *Monitor) enabled(flag MonitorFlags) bool {
	return m.flags&flag != 0 || m.flags&MonitorAll != 0
}

func (m *Monitor) WithTick(handler bus.TickEventHandler) bus.TickEventHandler {
	return func(ctx context.Context, tick common.Tick) {
		if m.enabled(MonitorTicks) {
			slog.Info("event", "tick", tick)
		}
		handler(ctx, tick)
	}
}

func (m *Monitor) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		if m.enabled(MonitorBars) {
			slog.Info("event", "bar", bar)
		}
		handler(ctx, bar)
	}
}

func (m *Monitor) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, snapshot common.Snapshot) {
		if m.enabled(MonitorSnapshots) {
			slog.Info("event", "snapshot", snapshot)
		}
		handler(ctx, snapshot)
	}
}

func (m *Monitor) WithPositionOpened(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.enabled(MonitorPositionsOpened) {
			slog.Info("event", "position_open", position)
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithPositionClosed(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.enabled(MonitorPositionsClosed) {
			slog.Info("event", "position_closed", position)
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithPositionUpdated(handler bus.PositionEventHandler) bus.PositionEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.enabled(MonitorPositionsUpdated) {
			slog.Info("event", "position_update", position)
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithOrder(handler bus.OrderEventHandler) bus.OrderEventHandler {
	return func(ctx context.Context, order common.Order) {
		if m.enabled(MonitorOrders) {
			slog.Info("event", "order", order)
		}
		handler(ctx, order)
	}
}

func (m *Monitor) WithOrderRejected(handler bus.RejectionEventHandler) bus.RejectionEventHandler {
	return func(ctx context.Context, result common.TradeResult) {
		if m.enabled(MonitorOrdersRejected) {
			slog.Info("event", "order_rejected", result)
		}
		handler(ctx, result)
	}
}

func (m *Monitor) WithDeal(handler bus.DealEventHandler) bus.DealEventHandler {
	return func(ctx context.Context, deal common.Deal) {
		if m.enabled(MonitorDeals) {
			slog.Info("event", "deal", deal)
		}
		handler(ctx, deal)
	}
}

package bus

import (
	"context"

	"github.com/quantlab-fx/brokersim/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type TickEventHandler EventHandler[common.Tick]
type BarEventHandler EventHandler[common.Bar]
type SnapshotEventHandler EventHandler[common.Snapshot]
type PositionEventHandler EventHandler[common.Position]
type OrderEventHandler EventHandler[common.Order]
type DealEventHandler EventHandler[common.Deal]
type RejectionEventHandler EventHandler[common.TradeResult]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}

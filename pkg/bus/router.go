package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/quantlab-fx/brokersim/pkg/common"
)

type event struct {
	id   EventId
	data interface{}
}

// Router is a bounded single-consumer event queue. Everything posted from the
// replay loop is dispatched in posting order by the same goroutine that drives
// the loop, so handlers observe engine state transitions in the order they
// happened.
type Router struct {
	done   chan error
	events chan event

	OnTick            TickEventHandler
	OnBar             BarEventHandler
	OnSnapshot        SnapshotEventHandler
	OnPositionOpened  PositionEventHandler
	OnPositionClosed  PositionEventHandler
	OnPositionUpdated PositionEventHandler
	OnOrderPlaced     OrderEventHandler
	OnOrderFilled     OrderEventHandler
	OnOrderCanceled   OrderEventHandler
	OnOrderExpired    OrderEventHandler
	OnOrderRejected   RejectionEventHandler
	OnDeal            DealEventHandler

	runTime       time.Duration
	postCount     atomic.Uint64
	postFails     atomic.Uint64
	dispatchCount atomic.Uint64
	dispatchFails atomic.Uint64
}

func NewRouter(eventCapacity int) *Router {
	return &Router{
		done:   make(chan error, 1),
		events: make(chan event, eventCapacity),
	}
}

func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount.Add(1)
		return nil
	default:
		r.postFails.Add(1)
		return errors.New("event capacity reached")
	}
}

// Exec dispatches queued events until the context is canceled.
func (r *Router) Exec(ctx context.Context) {
	start := time.Now()
	defer func() {
		r.runTime += time.Since(start)
	}()

	for {
		select {
		case <-ctx.Done():
			r.done <- ctx.Err()
			return
		case ev := <-r.events:
			r.dispatchCount.Add(1)
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails.Add(1)
				slog.Warn("dispatch failed", "error", err, "event", ev.id)
			}
		}
	}
}

// ExecLoop drains all queued events, then calls doOnceCb to advance the
// replay by one step, and repeats. A non-nil error from the callback ends the
// loop and is published on Done.
func (r *Router) ExecLoop(ctx context.Context, doOnceCb func() error) {
	start := time.Now()
	defer func() {
		r.runTime += time.Since(start)
	}()

	for {
		select {
		case <-ctx.Done():
			r.done <- ctx.Err()
			return
		case ev := <-r.events:
			r.dispatchCount.Add(1)
			if err := r.dispatch(ctx, ev); err != nil {
				r.dispatchFails.Add(1)
				slog.Warn("dispatch failed", "error", err, "event", ev.id)
			}
		default:
			if err := doOnceCb(); err != nil {
				r.done <- err
				return
			}
		}
	}
}

func (r *Router) Done() <-chan error {
	return r.done
}

func (r *Router) Statistics() Statistics {
	s := Statistics{
		RunTime:       r.runTime,
		PostCount:     r.postCount.Load(),
		PostFails:     r.postFails.Load(),
		DispatchCount: r.dispatchCount.Load(),
		DispatchFails: r.dispatchFails.Load(),
	}
	if r.runTime > 0 {
		s.Throughput = float64(s.DispatchCount) / r.runTime.Seconds()
	}
	return s
}

func dispatchAs[T any](ctx context.Context, ev event, handler EventHandler[T]) error {
	data, ok := ev.data.(T)
	if !ok {
		return fmt.Errorf("invalid payload type %T for %s event", ev.data, ev.id)
	}
	if handler == nil {
		slog.Debug("handler is nil", "event", ev.id)
		return nil
	}
	handler(ctx, data)
	return nil
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case TickEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Tick](r.OnTick))
	case BarEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Bar](r.OnBar))
	case SnapshotEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Snapshot](r.OnSnapshot))
	case PositionOpenedEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Position](r.OnPositionOpened))
	case PositionClosedEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Position](r.OnPositionClosed))
	case PositionUpdatedEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Position](r.OnPositionUpdated))
	case OrderPlacedEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Order](r.OnOrderPlaced))
	case OrderFilledEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Order](r.OnOrderFilled))
	case OrderCanceledEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Order](r.OnOrderCanceled))
	case OrderExpiredEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Order](r.OnOrderExpired))
	case OrderRejectedEvent:
		return dispatchAs(ctx, ev, EventHandler[common.TradeResult](r.OnOrderRejected))
	case DealEvent:
		return dispatchAs(ctx, ev, EventHandler[common.Deal](r.OnDeal))
	}
	return fmt.Errorf("unsupported event id: %v", ev.id)
}

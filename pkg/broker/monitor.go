package broker

import (
	"time"

	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// MonitorPass runs the per-tick maintenance in a fixed order: refresh the
// account aggregate, close positions whose stop levels were hit, trigger or
// expire pending orders, then publish a state snapshot. All fills go through
// OrderSend like any external request.
func (e *Engine) MonitorPass(now time.Time) {
	e.refreshAggregates()
	e.scanPositions()
	e.scanOrders(now)
	e.refreshAggregates()
	e.post(bus.SnapshotEvent, e.Snapshot(now))
}

// scanPositions closes every open position whose stop-loss or take-profit
// level is reached by the current quote. Boundary touches trigger.
func (e *Engine) scanPositions() {
	tickets := make([]common.Ticket, 0, len(e.positions))
	for i := range e.positions {
		tickets = append(tickets, e.positions[i].Ticket)
	}

	for _, ticket := range tickets {
		idx := e.positionIndex(ticket)
		if idx < 0 {
			continue
		}
		position := e.positions[idx]
		if !position.StopLoss.IsPos() && !position.TakeProfit.IsPos() {
			continue
		}

		tick, err := e.ticks.GetTick(position.Symbol)
		if err != nil {
			e.log.Error("tick lookup failed", zap.String("symbol", position.Symbol), zap.Error(err))
			continue
		}

		if !stopHit(position, tick) {
			continue
		}

		result := e.OrderSend(common.TradeRequest{
			Action:   common.ActionDeal,
			Type:     position.Type.Opposite(),
			Symbol:   position.Symbol,
			Volume:   position.Volume,
			Price:    position.ClosePrice(tick),
			Position: position.Ticket,
			Magic:    position.Magic,
			Comment:  position.Comment,
		})
		if !result.Ok() {
			e.log.Warn("stop close rejected",
				zap.Int64("position", position.Ticket),
				zap.Stringer("retcode", result.Retcode),
				zap.String("reason", result.Reason))
		}
	}
}

func stopHit(position common.Position, tick common.Tick) bool {
	if position.Type == common.PositionTypeBuy {
		if position.TakeProfit.IsPos() && tick.Bid.Gte(position.TakeProfit) {
			return true
		}
		if position.StopLoss.IsPos() && tick.Bid.Lte(position.StopLoss) {
			return true
		}
		return false
	}
	if position.TakeProfit.IsPos() && tick.Ask.Lte(position.TakeProfit) {
		return true
	}
	if position.StopLoss.IsPos() && tick.Ask.Gte(position.StopLoss) {
		return true
	}
	return false
}

// scanOrders expires pending orders whose expiration has passed and fills or
// converts the ones whose trigger condition is met.
func (e *Engine) scanOrders(now time.Time) {
	tickets := make([]common.Ticket, 0, len(e.orders))
	for i := range e.orders {
		tickets = append(tickets, e.orders[i].Ticket)
	}

	for _, ticket := range tickets {
		idx := e.orderIndex(ticket)
		if idx < 0 {
			continue
		}

		if e.orders[idx].Expired(now) {
			e.expireOrder(idx, now)
			continue
		}

		order := e.orders[idx]
		tick, err := e.ticks.GetTick(order.Symbol)
		if err != nil {
			e.log.Error("tick lookup failed", zap.String("symbol", order.Symbol), zap.Error(err))
			continue
		}

		switch order.Type {
		case common.OrderTypeBuyStopLimit:
			if tick.Ask.Gte(order.PriceOpen) {
				e.convertStopLimit(idx, common.OrderTypeBuyLimit)
			}
		case common.OrderTypeSellStopLimit:
			if tick.Bid.Lte(order.PriceOpen) {
				e.convertStopLimit(idx, common.OrderTypeSellLimit)
			}
		default:
			if fill, ok := triggerPrice(order, tick); ok {
				e.fillOrder(idx, fill, tick.TimeStamp)
			}
		}
	}
}

// triggerPrice reports whether a limit or stop order triggers on the quote
// and at what price it fills. Limits fill at their own price, stops at the
// market.
func triggerPrice(order common.Order, tick common.Tick) (fixed.Point, bool) {
	switch order.Type {
	case common.OrderTypeBuyLimit:
		if tick.Ask.Lte(order.PriceOpen) {
			return order.PriceOpen, true
		}
	case common.OrderTypeBuyStop:
		if tick.Ask.Gte(order.PriceOpen) {
			return tick.Ask, true
		}
	case common.OrderTypeSellLimit:
		if tick.Bid.Gte(order.PriceOpen) {
			return order.PriceOpen, true
		}
	case common.OrderTypeSellStop:
		if tick.Bid.Lte(order.PriceOpen) {
			return tick.Bid, true
		}
	}
	return fixed.Zero, false
}

// convertStopLimit turns a triggered stop-limit order into the resting limit
// order it carries. No fill happens at conversion time.
func (e *Engine) convertStopLimit(idx int, limitType common.OrderType) {
	order := &e.orders[idx]
	order.Type = limitType
	order.PriceOpen = order.PriceStopLimit
	order.PriceStopLimit = fixed.Zero
	e.post(bus.OrderPlacedEvent, *order)

	e.log.Debug("stop-limit converted",
		zap.Int64("order", order.Ticket),
		zap.Stringer("type", order.Type),
		zap.Stringer("price", order.PriceOpen))
}

// fillOrder opens a position from a triggered pending order. A rejected fill
// leaves the order resting; it may fill on a later tick.
func (e *Engine) fillOrder(idx int, fill fixed.Point, now time.Time) {
	order := e.orders[idx]

	marketType := common.OrderTypeBuy
	if order.Type.IsSell() {
		marketType = common.OrderTypeSell
	}
	result := e.OrderSend(common.TradeRequest{
		Action:     common.ActionDeal,
		Type:       marketType,
		Symbol:     order.Symbol,
		Volume:     order.Volume,
		Price:      fill,
		StopLoss:   order.StopLoss,
		TakeProfit: order.TakeProfit,
		Magic:      order.Magic,
		Comment:    order.Comment,
	})
	if !result.Ok() {
		e.log.Warn("pending fill rejected",
			zap.Int64("order", order.Ticket),
			zap.Stringer("retcode", result.Retcode),
			zap.String("reason", result.Reason))
		return
	}

	idx = e.orderIndex(order.Ticket)
	if idx < 0 {
		return
	}
	filled := e.orders[idx]
	e.orders = append(e.orders[:idx], e.orders[idx+1:]...)

	filled.State = common.OrderStateFilled
	filled.TimeDone = now
	e.historyOrders = append(e.historyOrders, filled)
	e.post(bus.OrderFilledEvent, filled)
}

func (e *Engine) expireOrder(idx int, now time.Time) {
	order := e.orders[idx]
	e.orders = append(e.orders[:idx], e.orders[idx+1:]...)

	order.State = common.OrderStateExpired
	order.TimeDone = now
	e.historyOrders = append(e.historyOrders, order)
	e.post(bus.OrderExpiredEvent, order)

	e.log.Debug("order expired", zap.Int64("order", order.Ticket))
}

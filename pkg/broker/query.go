package broker

import (
	"path"
	"time"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Filter narrows query results. Zero fields match everything; Group is a
// path glob matched against the symbol name (e.g. "EUR*").
type Filter struct {
	Symbol string
	Group  string
	Ticket common.Ticket
}

func (f Filter) matches(symbol string, ticket common.Ticket) bool {
	if f.Symbol != "" && f.Symbol != symbol {
		return false
	}
	if f.Group != "" {
		ok, err := path.Match(f.Group, symbol)
		if err != nil || !ok {
			return false
		}
	}
	if f.Ticket != 0 && f.Ticket != ticket {
		return false
	}
	return true
}

// PositionsGet returns copies of the open positions matching the filter.
func (e *Engine) PositionsGet(f Filter) []common.Position {
	out := make([]common.Position, 0, len(e.positions))
	for i := range e.positions {
		if f.matches(e.positions[i].Symbol, e.positions[i].Ticket) {
			out = append(out, e.positions[i])
		}
	}
	return out
}

// OrdersGet returns copies of the resting pending orders matching the filter.
func (e *Engine) OrdersGet(f Filter) []common.Order {
	out := make([]common.Order, 0, len(e.orders))
	for i := range e.orders {
		if f.matches(e.orders[i].Symbol, e.orders[i].Ticket) {
			out = append(out, e.orders[i])
		}
	}
	return out
}

func (e *Engine) PositionsTotal() int {
	return len(e.positions)
}

func (e *Engine) OrdersTotal() int {
	return len(e.orders)
}

// HistoryOrdersGet returns terminal orders whose completion time falls in
// [from, to). Zero bounds are open-ended.
func (e *Engine) HistoryOrdersGet(from, to time.Time, f Filter) []common.Order {
	out := make([]common.Order, 0, len(e.historyOrders))
	for i := range e.historyOrders {
		order := e.historyOrders[i]
		if !inRange(order.TimeDone, from, to) {
			continue
		}
		if f.matches(order.Symbol, order.Ticket) {
			out = append(out, order)
		}
	}
	return out
}

// HistoryDealsGet returns deals whose execution time falls in [from, to).
func (e *Engine) HistoryDealsGet(from, to time.Time, f Filter) []common.Deal {
	out := make([]common.Deal, 0, len(e.deals))
	for i := range e.deals {
		deal := e.deals[i]
		if !inRange(deal.Time, from, to) {
			continue
		}
		if f.matches(deal.Symbol, deal.Ticket) {
			out = append(out, deal)
		}
	}
	return out
}

func (e *Engine) HistoryOrdersTotal() int {
	return len(e.historyOrders)
}

func (e *Engine) HistoryDealsTotal() int {
	return len(e.deals)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// OrderCalcMargin computes the margin a request would reserve, using the
// account leverage.
func (e *Engine) OrderCalcMargin(symbol string, volume, price fixed.Point) (fixed.Point, error) {
	spec, err := e.symbols.GetSymbol(symbol)
	if err != nil {
		return fixed.Zero, err
	}
	return OrderMargin(spec, e.account.Leverage, volume, price)
}

// OrderCalcProfit computes the profit of a hypothetical round trip.
func (e *Engine) OrderCalcProfit(orderType common.OrderType, symbol string, volume, priceOpen, priceClose fixed.Point) (fixed.Point, error) {
	spec, err := e.symbols.GetSymbol(symbol)
	if err != nil {
		return fixed.Zero, err
	}
	return OrderProfit(spec, orderType, volume, priceOpen, priceClose)
}

// Snapshot returns a read-only copy of the account and the open containers.
func (e *Engine) Snapshot(now time.Time) common.Snapshot {
	return common.Snapshot{
		Time:      now,
		Account:   e.account,
		Positions: e.PositionsGet(Filter{}),
		Orders:    e.OrdersGet(Filter{}),
	}
}

package broker

import (
	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

type Option func(*Engine)

// CommissionHandler computes the commission charged on a single fill. The
// returned value is added to the balance, so a charge is negative.
type CommissionHandler func(spec common.SymbolSpec, volume, price fixed.Point) fixed.Point

// SwapHandler computes the overnight swap carried on an out deal.
type SwapHandler func(spec common.SymbolSpec, position common.Position) fixed.Point

// DealJournal persists closed-deal records. Append failures never roll back
// the in-memory state.
type DealJournal interface {
	Append(deal common.Deal, balance fixed.Point) error
}

// FlatCommission charges a fixed amount per lot on every fill.
func FlatCommission(perLot fixed.Point) CommissionHandler {
	return func(_ common.SymbolSpec, volume, _ fixed.Point) fixed.Point {
		return perLot.Mul(volume).Neg()
	}
}

func WithCommissionHandler(handler CommissionHandler) Option {
	return func(e *Engine) {
		e.commissionHandler = handler
	}
}

func WithSwapHandler(handler SwapHandler) Option {
	return func(e *Engine) {
		e.swapHandler = handler
	}
}

func WithJournal(journal DealJournal) Option {
	return func(e *Engine) {
		e.journal = journal
	}
}

func WithRouter(router *bus.Router) Option {
	return func(e *Engine) {
		e.router = router
	}
}

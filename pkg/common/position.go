package common

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Position is an open market exposure. One ticket per position; the netting
// model keeps at most one position per symbol and magic.
type Position struct {
	Ticket     Ticket       `json:"ticket"`
	Symbol     string       `json:"symbol"`
	Type       PositionType `json:"type"`
	Volume     fixed.Point  `json:"volume"`
	PriceOpen  fixed.Point  `json:"price_open"`
	StopLoss   fixed.Point  `json:"sl"`
	TakeProfit fixed.Point  `json:"tp"`
	// Profit and Margin are refreshed on every monitoring pass against the
	// latest quote.
	Profit   fixed.Point `json:"profit"`
	Margin   fixed.Point `json:"margin"`
	Magic    int64       `json:"magic"`
	Comment  string      `json:"comment,omitempty"`
	TimeOpen time.Time   `json:"time_open"`
}

// ClosePrice returns the market side at which the position would be closed.
func (p Position) ClosePrice(t Tick) fixed.Point {
	if p.Type == PositionTypeBuy {
		return t.Bid
	}
	return t.Ask
}

package common

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Tick is a single quote update for one symbol.
type Tick struct {
	Symbol    string      `json:"symbol"`
	Bid       fixed.Point `json:"bid"`
	Ask       fixed.Point `json:"ask"`
	Last      fixed.Point `json:"last"`
	Volume    fixed.Point `json:"volume"`
	TimeStamp time.Time   `json:"timestamp"`
}

// Spread returns ask minus bid.
func (t Tick) Spread() fixed.Point {
	return t.Ask.Sub(t.Bid)
}

// Bar is a single OHLC candle used by the bar-based tick modelling modes.
type Bar struct {
	Symbol    string        `json:"symbol"`
	Open      fixed.Point   `json:"open"`
	High      fixed.Point   `json:"high"`
	Low       fixed.Point   `json:"low"`
	Close     fixed.Point   `json:"close"`
	Volume    fixed.Point   `json:"volume"`
	TimeStamp time.Time     `json:"timestamp"`
	Period    time.Duration `json:"period"`
}

package common

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Order is a pending order resting on the simulated venue. Market requests
// never become orders; they fill immediately and are recorded in history.
type Order struct {
	Ticket         Ticket      `json:"ticket"`
	Symbol         string      `json:"symbol"`
	Type           OrderType   `json:"type"`
	State          OrderState  `json:"state"`
	Volume         fixed.Point `json:"volume"`
	PriceOpen      fixed.Point `json:"price_open"`
	PriceStopLimit fixed.Point `json:"price_stoplimit"`
	StopLoss       fixed.Point `json:"sl"`
	TakeProfit     fixed.Point `json:"tp"`
	Magic          int64       `json:"magic"`
	Comment        string      `json:"comment,omitempty"`
	TimeSetup      time.Time   `json:"time_setup"`
	TimeDone       time.Time   `json:"time_done,omitempty"`
	Expiration     time.Time   `json:"expiration,omitempty"`
}

// Expired reports whether the order carries an expiration that has passed.
func (o Order) Expired(now time.Time) bool {
	return !o.Expiration.IsZero() && !now.Before(o.Expiration)
}

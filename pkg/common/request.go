package common

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// TradeRequest is the single entry point into the trading engine. The Action
// field selects which of the remaining fields are read.
type TradeRequest struct {
	Action         TradeAction `json:"action"`
	Type           OrderType   `json:"type"`
	Symbol         string      `json:"symbol"`
	Volume         fixed.Point `json:"volume"`
	Price          fixed.Point `json:"price"`
	StopLoss       fixed.Point `json:"sl"`
	TakeProfit     fixed.Point `json:"tp"`
	PriceStopLimit fixed.Point `json:"price_stoplimit"`
	Position       Ticket      `json:"position,omitempty"`
	Order          Ticket      `json:"order,omitempty"`
	Magic          int64       `json:"magic"`
	Comment        string      `json:"comment,omitempty"`
	Expiration     time.Time   `json:"expiration,omitempty"`
}

// TradeResult reports the outcome of a TradeRequest. Ticket fields are zero
// unless the action created the corresponding record.
type TradeResult struct {
	Retcode  Retcode     `json:"retcode"`
	Reason   string      `json:"reason,omitempty"`
	Deal     Ticket      `json:"deal,omitempty"`
	Order    Ticket      `json:"order,omitempty"`
	Position Ticket      `json:"position,omitempty"`
	Volume   fixed.Point `json:"volume,omitempty"`
	Price    fixed.Point `json:"price,omitempty"`
}

// Ok reports whether the request was fully executed.
func (r TradeResult) Ok() bool {
	return r.Retcode == RetcodeDone
}

// Reject builds a failed result with the given code and human readable reason.
func Reject(code Retcode, reason string) TradeResult {
	return TradeResult{Retcode: code, Reason: reason}
}

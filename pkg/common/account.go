package common

import (
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Account holds the trading account state and its derived aggregates. Balance
// moves only on realized profit and charges; the rest is recomputed from open
// positions on every monitoring pass.
type Account struct {
	Balance        fixed.Point `json:"balance"`
	Credit         fixed.Point `json:"credit"`
	Profit         fixed.Point `json:"profit"`
	Equity         fixed.Point `json:"equity"`
	Margin         fixed.Point `json:"margin"`
	MarginFree     fixed.Point `json:"margin_free"`
	MarginLevel    fixed.Point `json:"margin_level"`
	Leverage       int64       `json:"leverage"`
	LimitOrders    int         `json:"limit_orders"`
	CurrencyDigits int         `json:"currency_digits"`
	Currency       string      `json:"currency"`
	Name           string      `json:"name,omitempty"`
	Server         string      `json:"server,omitempty"`
	Company        string      `json:"company,omitempty"`
}

// Refresh recomputes the derived aggregates from the supplied floating profit
// and used margin totals. MarginLevel is zero when no margin is in use.
func (a *Account) Refresh(profit, margin fixed.Point) {
	a.Profit = profit
	a.Margin = margin
	a.Equity = a.Balance.Add(a.Credit).Add(profit)
	a.MarginFree = a.Equity.Sub(margin)
	if margin.IsZero() {
		a.MarginLevel = fixed.Zero
		return
	}
	a.MarginLevel = a.Equity.Div(margin).Mul(fixed.Hundred).Round(2)
}

package common

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Deal is an immutable execution record. Two deals bracket every round trip:
// one with EntryIn when the position opens and one with EntryOut when it
// closes.
type Deal struct {
	Ticket     Ticket      `json:"ticket"`
	Order      Ticket      `json:"order"`
	Position   Ticket      `json:"position"`
	Symbol     string      `json:"symbol"`
	Type       OrderType   `json:"type"`
	Entry      DealEntry   `json:"entry"`
	Reason     DealReason  `json:"reason"`
	Volume     fixed.Point `json:"volume"`
	Price      fixed.Point `json:"price"`
	Commission fixed.Point `json:"commission"`
	Swap       fixed.Point `json:"swap"`
	Profit     fixed.Point `json:"profit"`
	Magic      int64       `json:"magic"`
	Comment    string      `json:"comment,omitempty"`
	Time       time.Time   `json:"time"`
}

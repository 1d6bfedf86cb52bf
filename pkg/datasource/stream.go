// Package datasource defines the stream interfaces the replay layer consumes
// and the modelling modes that select how quotes are produced.
package datasource

import (
	"errors"

	"github.com/quantlab-fx/brokersim/pkg/common"
)

// ErrEof is returned by a stream that has been fully consumed.
var ErrEof = errors.New("EOF")

// TickStream hands out quotes one at a time in timestamp order.
type TickStream interface {
	GetNext() (common.Tick, error)
}

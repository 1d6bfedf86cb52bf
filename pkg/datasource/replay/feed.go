// Package replay merges per-symbol streams into a single chronological quote
// feed that backs the engine during a backtest.
package replay

import (
	"fmt"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/datasource"
)

// Feed is the replay-mode quote source. Advance publishes the earliest
// pending tick across all symbols; GetTick serves the latest published quote
// per symbol. Lookups for a symbol that has not ticked yet fail, the same way
// an unsubscribed symbol would on a live feed.
type Feed struct {
	streams map[string]datasource.TickStream
	pending map[string]common.Tick
	current map[string]common.Tick
	last    common.Tick
	started bool
}

func NewFeed() *Feed {
	return &Feed{
		streams: make(map[string]datasource.TickStream),
		pending: make(map[string]common.Tick),
		current: make(map[string]common.Tick),
	}
}

// Subscribe attaches a symbol's stream. Must be called before the first
// Advance.
func (f *Feed) Subscribe(symbol string, stream datasource.TickStream) {
	f.streams[symbol] = stream
}

// GetTick returns the latest published quote for the symbol.
func (f *Feed) GetTick(symbol string) (common.Tick, error) {
	tick, ok := f.current[symbol]
	if !ok {
		return common.Tick{}, fmt.Errorf("no quote for %s", symbol)
	}
	return tick, nil
}

// Last returns the most recently published tick.
func (f *Feed) Last() (common.Tick, bool) {
	return f.last, f.started
}

// Advance publishes the next tick in timestamp order; equal timestamps break
// ties by symbol name so a replay is reproducible run to run. It reports false
// when every stream is exhausted.
func (f *Feed) Advance() bool {
	f.refill()

	var (
		next   common.Tick
		symbol string
		found  bool
	)
	for sym, tick := range f.pending {
		switch {
		case !found || tick.TimeStamp.Before(next.TimeStamp):
		case tick.TimeStamp.Equal(next.TimeStamp) && sym < symbol:
		default:
			continue
		}
		next = tick
		symbol = sym
		found = true
	}
	if !found {
		return false
	}

	delete(f.pending, symbol)
	f.current[symbol] = next
	f.last = next
	f.started = true
	return true
}

// refill pulls one pending tick per symbol that has none buffered. An
// exhausted or failed stream is dropped; the replay ends once nothing is
// left.
func (f *Feed) refill() {
	for symbol, stream := range f.streams {
		if _, ok := f.pending[symbol]; ok {
			continue
		}
		tick, err := stream.GetNext()
		if err != nil {
			delete(f.streams, symbol)
			continue
		}
		f.pending[symbol] = tick
	}
}

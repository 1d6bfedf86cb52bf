package datasource

import (
	"fmt"

	"github.com/quantlab-fx/brokersim/pkg/common"
)

// BarStream hands out OHLC candles one at a time in timestamp order.
type BarStream interface {
	GetNext() (common.Bar, error)
}

// Modelling selects how the replay prices the market between bar boundaries.
type Modelling int

const (
	// RealTicks replays every recorded tick.
	RealTicks Modelling = iota
	// EveryTick synthesizes an open-high-low-close tick path per bar.
	EveryTick
	// NewBar emits a single tick at each bar open.
	NewBar
	// OHLCMinute is the EveryTick path built from one-minute bars.
	OHLCMinute
)

func (m Modelling) String() string {
	switch m {
	case RealTicks:
		return "real_ticks"
	case EveryTick:
		return "every_tick"
	case NewBar:
		return "new_bar"
	case OHLCMinute:
		return "ohlc_1m"
	}
	return "unknown"
}

// ParseModelling maps a configuration string to its modelling mode.
func ParseModelling(s string) (Modelling, error) {
	for _, m := range []Modelling{RealTicks, EveryTick, NewBar, OHLCMinute} {
		if m.String() == s {
			return m, nil
		}
	}
	return RealTicks, fmt.Errorf("unknown modelling mode %q", s)
}

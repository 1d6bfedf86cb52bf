package replay

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/datasource"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// BarSynthesizer turns a bar stream into a tick stream according to the
// modelling mode. Synthetic quotes use bid = price and ask = bid + spread,
// and intra-bar ticks are spaced evenly inside the bar period in
// open-high-low-close order.
type BarSynthesizer struct {
	bars   datasource.BarStream
	mode   datasource.Modelling
	spread fixed.Point
	queue  []common.Tick
}

func NewBarSynthesizer(bars datasource.BarStream, mode datasource.Modelling, spread fixed.Point) *BarSynthesizer {
	return &BarSynthesizer{
		bars:   bars,
		mode:   mode,
		spread: spread,
	}
}

func (s *BarSynthesizer) GetNext() (common.Tick, error) {
	if len(s.queue) == 0 {
		bar, err := s.bars.GetNext()
		if err != nil {
			return common.Tick{}, err
		}
		s.queue = s.synthesize(bar)
	}

	tick := s.queue[0]
	s.queue = s.queue[1:]
	return tick, nil
}

func (s *BarSynthesizer) synthesize(bar common.Bar) []common.Tick {
	quote := func(price fixed.Point, offset int) common.Tick {
		return common.Tick{
			Symbol:    bar.Symbol,
			Bid:       price,
			Ask:       price.Add(s.spread),
			Volume:    bar.Volume,
			TimeStamp: bar.TimeStamp.Add(bar.Period / 4 * time.Duration(offset)),
		}
	}

	if s.mode == datasource.NewBar {
		return []common.Tick{quote(bar.Open, 0)}
	}
	return []common.Tick{
		quote(bar.Open, 0),
		quote(bar.High, 1),
		quote(bar.Low, 2),
		quote(bar.Close, 3),
	}
}

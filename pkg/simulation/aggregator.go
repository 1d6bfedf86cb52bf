package simulation

import (
	"time"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
)

// Aggregator builds mid-price OHLC candles from the tick flow and posts a bar
// event each time an interval rolls over. Bars are kept per symbol.
type Aggregator struct {
	interval time.Duration
	router   *bus.Router
	current  map[string]*common.Bar
}

func NewAggregator(interval time.Duration, router *bus.Router) *Aggregator {
	return &Aggregator{
		interval: interval,
		router:   router,
		current:  make(map[string]*common.Bar),
	}
}

func (a *Aggregator) Interval() time.Duration {
	return a.interval
}

func (a *Aggregator) OnTick(tick common.Tick) error {
	barTS := tick.TimeStamp.Truncate(a.interval)
	price := tick.Bid.Add(tick.Ask).DivInt(2)

	bar := a.current[tick.Symbol]

	// Interval rollover or gap, flush the finished candle first.
	if bar != nil && !bar.TimeStamp.Equal(barTS) {
		if err := a.router.Post(bus.BarEvent, *bar); err != nil {
			return err
		}
		bar = nil
	}

	if bar == nil {
		a.current[tick.Symbol] = &common.Bar{
			Symbol:    tick.Symbol,
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    tick.Volume,
			TimeStamp: barTS,
			Period:    a.interval,
		}
		return nil
	}

	if price.Gt(bar.High) {
		bar.High = price
	}
	if price.Lt(bar.Low) {
		bar.Low = price
	}
	bar.Close = price
	bar.Volume = bar.Volume.Add(tick.Volume)
	return nil
}

// Flush posts every unfinished candle. Call it once the replay ends.
func (a *Aggregator) Flush() error {
	for symbol, bar := range a.current {
		if err := a.router.Post(bus.BarEvent, *bar); err != nil {
			return err
		}
		delete(a.current, symbol)
	}
	return nil
}

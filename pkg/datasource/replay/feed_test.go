package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/datasource"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

type sliceStream struct {
	ticks []common.Tick
}

func (s *sliceStream) GetNext() (common.Tick, error) {
	if len(s.ticks) == 0 {
		return common.Tick{}, datasource.ErrEof
	}
	tick := s.ticks[0]
	s.ticks = s.ticks[1:]
	return tick, nil
}

type sliceBars struct {
	bars []common.Bar
}

func (s *sliceBars) GetNext() (common.Bar, error) {
	if len(s.bars) == 0 {
		return common.Bar{}, datasource.ErrEof
	}
	bar := s.bars[0]
	s.bars = s.bars[1:]
	return bar, nil
}

func tickAt(symbol string, at time.Time, bid string) common.Tick {
	return common.Tick{
		Symbol:    symbol,
		Bid:       fixed.MustFromString(bid),
		Ask:       fixed.MustFromString(bid),
		TimeStamp: at,
	}
}

func TestFeed_MergesSymbolsInTimestampOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	feed := NewFeed()
	feed.Subscribe("EURUSD", &sliceStream{ticks: []common.Tick{
		tickAt("EURUSD", base, "1.1000"),
		tickAt("EURUSD", base.Add(3*time.Second), "1.1001"),
	}})
	feed.Subscribe("GBPUSD", &sliceStream{ticks: []common.Tick{
		tickAt("GBPUSD", base.Add(time.Second), "1.3000"),
	}})

	var order []string
	for feed.Advance() {
		last, ok := feed.Last()
		require.True(t, ok)
		order = append(order, last.Symbol)
	}
	assert.Equal(t, []string{"EURUSD", "GBPUSD", "EURUSD"}, order)
}

func TestFeed_EqualTimestampsOrderedBySymbol(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	replay := func() []string {
		feed := NewFeed()
		for _, symbol := range []string{"USDJPY", "EURUSD", "GBPUSD"} {
			feed.Subscribe(symbol, &sliceStream{ticks: []common.Tick{
				tickAt(symbol, base, "1.0000"),
				tickAt(symbol, base.Add(time.Second), "1.0001"),
			}})
		}
		var order []string
		for feed.Advance() {
			last, ok := feed.Last()
			require.True(t, ok)
			order = append(order, last.Symbol)
		}
		return order
	}

	want := []string{"EURUSD", "GBPUSD", "USDJPY", "EURUSD", "GBPUSD", "USDJPY"}
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, replay())
	}
}

func TestFeed_GetTickServesLatestQuote(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	feed := NewFeed()
	feed.Subscribe("EURUSD", &sliceStream{ticks: []common.Tick{
		tickAt("EURUSD", base, "1.1000"),
		tickAt("EURUSD", base.Add(time.Second), "1.1005"),
	}})

	_, err := feed.GetTick("EURUSD")
	assert.Error(t, err, "no quote before first advance")

	require.True(t, feed.Advance())
	tick, err := feed.GetTick("EURUSD")
	require.NoError(t, err)
	assert.True(t, tick.Bid.Eq(fixed.MustFromString("1.1000")))

	require.True(t, feed.Advance())
	tick, err = feed.GetTick("EURUSD")
	require.NoError(t, err)
	assert.True(t, tick.Bid.Eq(fixed.MustFromString("1.1005")))

	assert.False(t, feed.Advance(), "stream exhausted")
}

func TestBarSynthesizer_NewBarMode(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := &sliceBars{bars: []common.Bar{{
		Symbol:    "EURUSD",
		Open:      fixed.MustFromString("1.1000"),
		High:      fixed.MustFromString("1.1010"),
		Low:       fixed.MustFromString("1.0990"),
		Close:     fixed.MustFromString("1.1005"),
		TimeStamp: base,
		Period:    time.Minute,
	}}}

	synth := NewBarSynthesizer(bars, datasource.NewBar, fixed.MustFromString("0.0001"))

	tick, err := synth.GetNext()
	require.NoError(t, err)
	assert.True(t, tick.Bid.Eq(fixed.MustFromString("1.1000")))
	assert.True(t, tick.Ask.Eq(fixed.MustFromString("1.1001")))
	assert.True(t, tick.TimeStamp.Equal(base))

	_, err = synth.GetNext()
	assert.ErrorIs(t, err, datasource.ErrEof)
}

func TestBarSynthesizer_EveryTickMode(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := &sliceBars{bars: []common.Bar{{
		Symbol:    "EURUSD",
		Open:      fixed.MustFromString("1.1000"),
		High:      fixed.MustFromString("1.1010"),
		Low:       fixed.MustFromString("1.0990"),
		Close:     fixed.MustFromString("1.1005"),
		TimeStamp: base,
		Period:    time.Minute,
	}}}

	synth := NewBarSynthesizer(bars, datasource.EveryTick, fixed.Zero)

	var bids []string
	var last time.Time
	for {
		tick, err := synth.GetNext()
		if err != nil {
			break
		}
		bids = append(bids, tick.Bid.String())
		assert.True(t, tick.TimeStamp.After(last) || tick.TimeStamp.Equal(base))
		last = tick.TimeStamp
	}
	assert.Equal(t, []string{"1.1000", "1.1010", "1.0990", "1.1005"}, bids)
}

package advisor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/broker"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// stubMarket feeds the engine the same quote the strategy last saw.
type stubMarket struct {
	spec common.SymbolSpec
	tick common.Tick
}

func (m *stubMarket) GetTick(symbol string) (common.Tick, error) {
	if symbol != m.spec.Name {
		return common.Tick{}, fmt.Errorf("no quote for %s", symbol)
	}
	return m.tick, nil
}

func (m *stubMarket) Advance() bool { return false }

func (m *stubMarket) GetSymbol(symbol string) (common.SymbolSpec, error) {
	if symbol != m.spec.Name {
		return common.SymbolSpec{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return m.spec, nil
}

func newTestRig(t *testing.T) (*Strategy, *broker.Engine, *stubMarket) {
	t.Helper()

	market := &stubMarket{spec: common.SymbolSpec{
		Name:          "EURUSD",
		Digits:        5,
		ContractSize:  fixed.FromInt(100000, 0),
		MarginMode:    common.MarginModeForex,
		VolumeMin:     fixed.MustFromString("0.01"),
		VolumeMax:     fixed.FromInt(100, 0),
		VolumeStep:    fixed.MustFromString("0.01"),
		TickValue:     fixed.One,
		TickSize:      fixed.MustFromString("0.00001"),
		QuoteCurrency: "USD",
	}}
	account := common.Account{
		Balance:  fixed.FromInt(10000, 0),
		Leverage: 100,
		Currency: "USD",
	}
	engine := broker.NewEngine(zap.NewNop(), market, market, account)

	return NewStrategy(zap.NewNop(), engine, "EURUSD", fixed.MustFromString("0.10")), engine, market
}

// barAt pushes a quote at the bar's close through the strategy's tick handler
// and into the stub market, then delivers the bar itself.
func barAt(s *Strategy, market *stubMarket, price string, at time.Time) {
	px := fixed.MustFromString(price)
	tick := common.Tick{
		Symbol:    "EURUSD",
		Bid:       px,
		Ask:       px.Add(fixed.MustFromString("0.00010")),
		TimeStamp: at,
	}
	market.tick = tick
	s.OnTick(context.Background(), tick)
	s.OnBar(context.Background(), common.Bar{
		Symbol:    "EURUSD",
		Close:     px,
		TimeStamp: at,
		Period:    time.Minute,
	})
}

func TestStrategyOpensAtMarketAsk(t *testing.T) {
	strategy, engine, market := newTestRig(t)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < slowPeriod; i++ {
		price := fmt.Sprintf("1.%04d0", 1000+i*10)
		barAt(strategy, market, price, base.Add(time.Duration(i)*time.Minute))
	}

	positions := engine.PositionsGet(broker.Filter{Symbol: "EURUSD"})
	require.Len(t, positions, 1)
	assert.Equal(t, common.PositionTypeBuy, positions[0].Type)
	assert.True(t, positions[0].PriceOpen.Eq(market.tick.Ask),
		"open %s ask %s", positions[0].PriceOpen, market.tick.Ask)
	assert.True(t, positions[0].Margin.IsPos())
}

func TestStrategyFlattensOnDownCross(t *testing.T) {
	strategy, engine, market := newTestRig(t)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	minute := 0
	bar := func(price string) {
		barAt(strategy, market, price, base.Add(time.Duration(minute)*time.Minute))
		minute++
	}

	for i := 0; i < slowPeriod; i++ {
		bar(fmt.Sprintf("1.%04d0", 1000+i*10))
	}
	require.Len(t, engine.PositionsGet(broker.Filter{}), 1)

	for i := 0; i < slowPeriod; i++ {
		bar(fmt.Sprintf("1.%04d0", 1000-i*10))
	}

	assert.Zero(t, engine.PositionsTotal())
	assert.Equal(t, 2, engine.HistoryDealsTotal()) // one round trip, in and out
}

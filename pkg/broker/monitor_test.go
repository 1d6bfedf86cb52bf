package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

func placePending(t *testing.T, e *Engine, orderType common.OrderType, price string) common.TradeResult {
	t.Helper()
	result := e.OrderSend(common.TradeRequest{
		Action: common.ActionPending,
		Type:   orderType,
		Symbol: "EURUSD",
		Volume: fixed.MustFromString("0.1"),
		Price:  fixed.MustFromString(price),
	})
	require.True(t, result.Ok(), result.Reason)
	return result
}

func TestMonitor_BuyStopBoundary(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.1900", "1.1901")

	placePending(t, e, common.OrderTypeBuyStop, "1.2000")

	// one point below the trigger: nothing happens
	market.quote("EURUSD", "1.19998", "1.19999")
	e.MonitorPass(market.now)
	assert.Equal(t, 1, e.OrdersTotal())
	assert.Equal(t, 0, e.PositionsTotal())

	// exactly at the trigger: fills at the ask
	market.quote("EURUSD", "1.19999", "1.20000")
	e.MonitorPass(market.now)
	assert.Equal(t, 0, e.OrdersTotal())
	require.Equal(t, 1, e.PositionsTotal())

	position := e.PositionsGet(Filter{})[0]
	assert.Equal(t, common.PositionTypeBuy, position.Type)
	assert.True(t, position.PriceOpen.Eq(fixed.MustFromString("1.20000")), "open %s", position.PriceOpen)
}

func TestMonitor_BuyLimitFillsAtOwnPrice(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.0999", "1.1000")

	placed := placePending(t, e, common.OrderTypeBuyLimit, "1.0950")

	// gap through the limit: still fills at the limit price
	market.quote("EURUSD", "1.0939", "1.0940")
	e.MonitorPass(market.now)

	assert.Equal(t, 0, e.OrdersTotal())
	require.Equal(t, 1, e.PositionsTotal())
	position := e.PositionsGet(Filter{})[0]
	assert.True(t, position.PriceOpen.Eq(fixed.MustFromString("1.0950")), "open %s", position.PriceOpen)

	history := e.HistoryOrdersGet(time.Time{}, time.Time{}, Filter{Ticket: placed.Order})
	require.Len(t, history, 1)
	assert.Equal(t, common.OrderStateFilled, history[0].State)
}

func TestMonitor_SellStopAndLimit(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.1000", "1.1001")

	placePending(t, e, common.OrderTypeSellLimit, "1.1050")
	placePending(t, e, common.OrderTypeSellStop, "1.0950")

	market.quote("EURUSD", "1.1050", "1.1051")
	e.MonitorPass(market.now)
	assert.Equal(t, 1, e.OrdersTotal())
	assert.Equal(t, 1, e.PositionsTotal())

	market.quote("EURUSD", "1.0950", "1.0951")
	e.MonitorPass(market.now)
	assert.Equal(t, 0, e.OrdersTotal())
	assert.Equal(t, 2, e.PositionsTotal())

	for _, position := range e.PositionsGet(Filter{}) {
		assert.Equal(t, common.PositionTypeSell, position.Type)
	}
}

func TestMonitor_StopLimitConversion(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.0999", "1.1000")

	result := e.OrderSend(common.TradeRequest{
		Action:         common.ActionPending,
		Type:           common.OrderTypeBuyStopLimit,
		Symbol:         "EURUSD",
		Volume:         fixed.MustFromString("0.1"),
		Price:          fixed.MustFromString("1.1100"),
		PriceStopLimit: fixed.MustFromString("1.1050"),
	})
	require.True(t, result.Ok(), result.Reason)

	// stop leg triggers: converts to a buy limit, no fill yet
	market.quote("EURUSD", "1.1099", "1.1100")
	e.MonitorPass(market.now)

	require.Equal(t, 1, e.OrdersTotal())
	assert.Equal(t, 0, e.PositionsTotal())
	order := e.OrdersGet(Filter{})[0]
	assert.Equal(t, common.OrderTypeBuyLimit, order.Type)
	assert.True(t, order.PriceOpen.Eq(fixed.MustFromString("1.1050")))

	// ask comes back to the limit: fills
	market.quote("EURUSD", "1.1049", "1.1050")
	e.MonitorPass(market.now)
	assert.Equal(t, 0, e.OrdersTotal())
	assert.Equal(t, 1, e.PositionsTotal())
}

func TestMonitor_OrderExpiry(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.0999", "1.1000")

	expiration := market.now.Add(time.Minute)
	result := e.OrderSend(common.TradeRequest{
		Action:     common.ActionPending,
		Type:       common.OrderTypeBuyLimit,
		Symbol:     "EURUSD",
		Volume:     fixed.MustFromString("0.1"),
		Price:      fixed.MustFromString("1.0950"),
		Expiration: expiration,
	})
	require.True(t, result.Ok(), result.Reason)

	e.MonitorPass(expiration.Add(-time.Second))
	assert.Equal(t, 1, e.OrdersTotal())

	e.MonitorPass(expiration)
	assert.Equal(t, 0, e.OrdersTotal())

	history := e.HistoryOrdersGet(time.Time{}, time.Time{}, Filter{Ticket: result.Order})
	require.Len(t, history, 1)
	assert.Equal(t, common.OrderStateExpired, history[0].State)
}

func TestMonitor_TakeProfitClosesBuy(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.1000", "1.1000")

	req := marketBuy("0.1", "1.1000")
	req.TakeProfit = fixed.MustFromString("1.1050")
	opened := e.OrderSend(req)
	require.True(t, opened.Ok(), opened.Reason)

	market.quote("EURUSD", "1.1049", "1.1050")
	e.MonitorPass(market.now)
	assert.Equal(t, 1, e.PositionsTotal())

	market.quote("EURUSD", "1.1050", "1.1051")
	e.MonitorPass(market.now)
	assert.Equal(t, 0, e.PositionsTotal())

	deals := e.HistoryDealsGet(time.Time{}, time.Time{}, Filter{})
	require.Len(t, deals, 2)
	assert.Equal(t, common.DealReasonTP, deals[1].Reason)
	assert.True(t, e.Account().Balance.Eq(fixed.FromInt(1050, 0)), "balance %s", e.Account().Balance)
}

func TestMonitor_StopLossClosesSell(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.1000", "1.1000")

	opened := e.OrderSend(common.TradeRequest{
		Action:   common.ActionDeal,
		Type:     common.OrderTypeSell,
		Symbol:   "EURUSD",
		Volume:   fixed.MustFromString("0.1"),
		Price:    fixed.MustFromString("1.1000"),
		StopLoss: fixed.MustFromString("1.1050"),
	})
	require.True(t, opened.Ok(), opened.Reason)

	market.quote("EURUSD", "1.1049", "1.1050")
	e.MonitorPass(market.now)
	assert.Equal(t, 0, e.PositionsTotal())

	deals := e.HistoryDealsGet(time.Time{}, time.Time{}, Filter{})
	require.Len(t, deals, 2)
	assert.Equal(t, common.DealReasonSL, deals[1].Reason)
	assert.True(t, deals[1].Profit.Eq(fixed.FromInt(-50, 0)), "profit %s", deals[1].Profit)
}

func TestMonitor_NoStopsNoClose(t *testing.T) {
	e, market := newTestEngine(t)
	market.quote("EURUSD", "1.1000", "1.1000")

	require.True(t, e.OrderSend(marketBuy("0.1", "1.1000")).Ok())

	market.quote("EURUSD", "1.2000", "1.2000")
	e.MonitorPass(market.now)
	assert.Equal(t, 1, e.PositionsTotal())
}

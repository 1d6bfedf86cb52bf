package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

func TestOrderProfit_Forex(t *testing.T) {
	spec := forexSpec()

	profit, err := OrderProfit(spec, common.OrderTypeBuy, fixed.MustFromString("0.1"),
		fixed.MustFromString("1.1000"), fixed.MustFromString("1.1050"))
	require.NoError(t, err)
	assert.True(t, profit.Eq(fixed.FromInt(50, 0)), "got %s", profit)
}

func TestOrderProfit_SignSymmetry(t *testing.T) {
	spec := forexSpec()
	open := fixed.MustFromString("1.1000")
	close := fixed.MustFromString("1.1010")

	buy, err := OrderProfit(spec, common.OrderTypeBuy, fixed.One, open, close)
	require.NoError(t, err)
	sell, err := OrderProfit(spec, common.OrderTypeSell, fixed.One, open, close)
	require.NoError(t, err)

	assert.True(t, buy.Eq(sell.Neg()), "buy %s sell %s", buy, sell)
	assert.True(t, buy.Eq(fixed.FromInt(100, 0)), "got %s", buy)
}

func TestOrderProfit_Futures(t *testing.T) {
	spec := forexSpec()
	spec.MarginMode = common.MarginModeFutures
	spec.TickValue = fixed.MustFromString("12.5")
	spec.TickSize = fixed.MustFromString("0.25")

	profit, err := OrderProfit(spec, common.OrderTypeBuy, fixed.FromInt(2, 0),
		fixed.MustFromString("4000.00"), fixed.MustFromString("4001.00"))
	require.NoError(t, err)
	// 1.00 move * 2 lots * 50 per point
	assert.True(t, profit.Eq(fixed.FromInt(100, 0)), "got %s", profit)
}

func TestOrderProfit_FuturesInvalidTickSize(t *testing.T) {
	spec := forexSpec()
	spec.MarginMode = common.MarginModeFutures
	spec.TickValue = fixed.MustFromString("12.5")

	_, err := OrderProfit(spec, common.OrderTypeBuy, fixed.One, fixed.One, fixed.One)
	assert.Error(t, err)
}

func TestOrderProfit_UnknownMode(t *testing.T) {
	spec := forexSpec()
	spec.MarginMode = common.MarginMode(99)

	_, err := OrderProfit(spec, common.OrderTypeBuy, fixed.One, fixed.One, fixed.One)
	assert.Error(t, err)
}

func TestOrderProfit_ServerCollateral(t *testing.T) {
	spec := forexSpec()
	spec.MarginMode = common.MarginModeServerCollateral
	spec.ContractSize = fixed.FromInt(1, 0)
	spec.LiquidityRate = fixed.MustFromString("0.5")

	profit, err := OrderProfit(spec, common.OrderTypeBuy, fixed.FromInt(10, 0),
		fixed.FromInt(90, 0), fixed.FromInt(100, 0))
	require.NoError(t, err)
	assert.True(t, profit.Eq(fixed.FromInt(500, 0)), "got %s", profit)
}

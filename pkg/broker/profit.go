package broker

import (
	"fmt"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// OrderProfit computes the profit of moving volume lots from priceOpen to
// priceClose in the direction of orderType, dispatching on the symbol's
// margin calculation mode. The result is rounded to two decimal places.
func OrderProfit(spec common.SymbolSpec, orderType common.OrderType, volume, priceOpen, priceClose fixed.Point) (fixed.Point, error) {
	delta := priceClose.Sub(priceOpen).MulInt(orderType.Direction())

	var profit fixed.Point
	switch spec.MarginMode {
	case common.MarginModeForex, common.MarginModeForexNoLeverage,
		common.MarginModeCFD, common.MarginModeCFDIndex, common.MarginModeCFDLeverage,
		common.MarginModeExchangeStocks:
		profit = delta.Mul(spec.ContractSize).Mul(volume)
	case common.MarginModeFutures, common.MarginModeExchangeFutures:
		if !spec.TickSize.IsPos() {
			return fixed.Zero, fmt.Errorf("profit %s: tick size must be positive, got %s", spec.Name, spec.TickSize)
		}
		profit = delta.Mul(volume).Mul(spec.TickValue.Div(spec.TickSize))
	case common.MarginModeExchangeBonds:
		openLeg := volume.Mul(spec.ContractSize).Mul(priceOpen.Mul(spec.FaceValue))
		closeLeg := volume.Mul(spec.ContractSize).Mul(priceClose.Mul(spec.FaceValue).Add(spec.AccruedRate))
		profit = closeLeg.Sub(openLeg)
	case common.MarginModeServerCollateral:
		profit = volume.Mul(spec.ContractSize).Mul(priceClose).Mul(spec.LiquidityRate)
	default:
		return fixed.Zero, fmt.Errorf("profit %s: unknown margin mode %d", spec.Name, spec.MarginMode)
	}

	return profit.Round(2), nil
}

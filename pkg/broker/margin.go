package broker

import (
	"fmt"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// marginRate resolves the rate used by the CFD family: margin_initial when
// set, margin_maintenance as a fallback, and 1.0 when neither is configured.
func marginRate(spec common.SymbolSpec) fixed.Point {
	if spec.MarginInitial.IsPos() {
		return spec.MarginInitial
	}
	if spec.MarginMaint.IsPos() {
		return spec.MarginMaint
	}
	return fixed.One
}

// OrderMargin computes the margin required to hold volume lots at the given
// price, dispatching on the symbol's margin calculation mode. The result is
// rounded to two decimal places. An unknown mode is an error, never a silent
// default.
func OrderMargin(spec common.SymbolSpec, leverage int64, volume, price fixed.Point) (fixed.Point, error) {
	if leverage <= 0 {
		return fixed.Zero, fmt.Errorf("margin %s: leverage must be positive, got %d", spec.Name, leverage)
	}

	notional := volume.Mul(spec.ContractSize).Mul(price)

	var margin fixed.Point
	switch spec.MarginMode {
	case common.MarginModeForex:
		margin = notional.DivInt64(leverage)
	case common.MarginModeForexNoLeverage:
		margin = notional
	case common.MarginModeCFD, common.MarginModeCFDIndex, common.MarginModeExchangeStocks:
		margin = notional.Mul(marginRate(spec))
	case common.MarginModeCFDLeverage:
		margin = notional.Mul(marginRate(spec)).DivInt64(leverage)
	case common.MarginModeFutures, common.MarginModeExchangeFutures:
		margin = volume.Mul(spec.MarginInitial)
	case common.MarginModeExchangeBonds:
		margin = volume.Mul(spec.ContractSize).Mul(spec.FaceValue).Mul(price).Div(fixed.Hundred)
	case common.MarginModeServerCollateral:
		margin = fixed.Zero
	default:
		return fixed.Zero, fmt.Errorf("margin %s: unknown margin mode %d", spec.Name, spec.MarginMode)
	}

	return margin.Round(2), nil
}

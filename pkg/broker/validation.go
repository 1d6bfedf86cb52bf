package broker

import (
	"fmt"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// rejection carries the retcode and the human readable reason produced by a
// failed check. A nil rejection means the check passed.
type rejection struct {
	code   common.Retcode
	reason string
}

func rejectf(code common.Retcode, format string, args ...any) *rejection {
	return &rejection{code: code, reason: fmt.Sprintf(format, args...)}
}

// validLotSize checks volume against the symbol's min, max and step. The step
// check tolerates rounding noise of up to 1e-7 relative to the step.
func validLotSize(spec common.SymbolSpec, volume fixed.Point) *rejection {
	if volume.Lt(spec.VolumeMin) {
		return rejectf(common.RetcodeInvalidVolume, "volume %s below minimum %s", volume, spec.VolumeMin)
	}
	if volume.Gt(spec.VolumeMax) {
		return rejectf(common.RetcodeInvalidVolume, "volume %s above maximum %s", volume, spec.VolumeMax)
	}
	if !spec.VolumeStep.IsPos() {
		return nil
	}
	steps := volume.Div(spec.VolumeStep)
	if steps.Sub(steps.Round(0)).Abs().Gt(fixed.PriceStepEpsilon) {
		return rejectf(common.RetcodeInvalidVolume, "volume %s not a multiple of step %s", volume, spec.VolumeStep)
	}
	return nil
}

// validStopsLevel checks that a stop price keeps the minimum stops distance
// from the entry. Exactly at the boundary passes; a zero stop is disabled.
func validStopsLevel(spec common.SymbolSpec, entry, stop fixed.Point, kind string) *rejection {
	if !stop.IsPos() {
		return nil
	}
	if entry.Sub(stop).Abs().Lt(spec.StopsDistance()) {
		return rejectf(common.RetcodeInvalidStops, "%s %s too close to entry %s (stops level %d points)",
			kind, stop, entry, spec.StopsLevel)
	}
	return nil
}

// validFreezeLevel checks that a price level is not inside the freeze
// distance from the current market. A zero freeze level disables the check.
func validFreezeLevel(spec common.SymbolSpec, market, level fixed.Point, kind string) *rejection {
	if spec.FreezeLevel <= 0 || !level.IsPos() {
		return nil
	}
	if market.Sub(level).Abs().Lt(spec.FreezeDistance()) {
		return rejectf(common.RetcodeInvalidStops, "%s %s inside freeze distance of market %s (freeze level %d points)",
			kind, level, market, spec.FreezeLevel)
	}
	return nil
}

// validStopLoss composes the stops-level distance check with the directional
// ordering rule: a buy keeps sl below the entry, a sell above it.
func validStopLoss(spec common.SymbolSpec, orderType common.OrderType, entry, sl fixed.Point) *rejection {
	if !sl.IsPos() {
		return nil
	}
	if r := validStopsLevel(spec, entry, sl, "sl"); r != nil {
		return r
	}
	if orderType.IsBuy() && sl.Gte(entry) {
		return rejectf(common.RetcodeInvalidStops, "buy sl %s must be below entry %s", sl, entry)
	}
	if orderType.IsSell() && sl.Lte(entry) {
		return rejectf(common.RetcodeInvalidStops, "sell sl %s must be above entry %s", sl, entry)
	}
	return nil
}

// validTakeProfit mirrors validStopLoss on the profit side.
func validTakeProfit(spec common.SymbolSpec, orderType common.OrderType, entry, tp fixed.Point) *rejection {
	if !tp.IsPos() {
		return nil
	}
	if r := validStopsLevel(spec, entry, tp, "tp"); r != nil {
		return r
	}
	if orderType.IsBuy() && tp.Lte(entry) {
		return rejectf(common.RetcodeInvalidStops, "buy tp %s must be above entry %s", tp, entry)
	}
	if orderType.IsSell() && tp.Gte(entry) {
		return rejectf(common.RetcodeInvalidStops, "sell tp %s must be below entry %s", tp, entry)
	}
	return nil
}

// validEntryPrice requires a market request price to match the current ask
// (buy) or bid (sell) within the symbol's point size.
func validEntryPrice(spec common.SymbolSpec, orderType common.OrderType, price fixed.Point, tick common.Tick) *rejection {
	market := tick.Ask
	if orderType.IsSell() {
		market = tick.Bid
	}
	if !spec.PriceEqual(price, market) {
		return rejectf(common.RetcodeInvalidPrice, "price %s does not match market %s", price, market)
	}
	return nil
}

// enoughMoney fails when the required margin exceeds the free margin.
func enoughMoney(required, free fixed.Point) *rejection {
	if required.Gt(free) {
		return rejectf(common.RetcodeNoMoney, "required margin %s exceeds free margin %s", required, free)
	}
	return nil
}

// maxOrdersReached blocks when the pending order count is at the account
// limit. A zero limit means unlimited.
func maxOrdersReached(count, limit int) *rejection {
	if limit > 0 && count >= limit {
		return rejectf(common.RetcodeLimitOrders, "pending order limit %d reached", limit)
	}
	return nil
}

// symbolVolumeReached blocks when the aggregate open volume on a symbol is at
// the symbol's volume limit. A zero limit means unlimited.
func symbolVolumeReached(total, limit fixed.Point) *rejection {
	if limit.IsPos() && total.Gte(limit) {
		return rejectf(common.RetcodeLimitVolume, "symbol volume limit %s reached (open %s)", limit, total)
	}
	return nil
}

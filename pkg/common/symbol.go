package common

import (
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// SymbolSpec is the static per-instrument trading parameter set. It is loaded
// once per symbol on first reference and never mutated afterwards.
type SymbolSpec struct {
	Name          string      `json:"name"`
	Digits        int         `json:"digits"`
	SpreadPoints  int         `json:"spread_points"`
	ContractSize  fixed.Point `json:"contract_size"`
	MarginMode    MarginMode  `json:"margin_mode"`
	StopsLevel    int         `json:"stops_level"`
	FreezeLevel   int         `json:"freeze_level"`
	VolumeMin     fixed.Point `json:"volume_min"`
	VolumeMax     fixed.Point `json:"volume_max"`
	VolumeStep    fixed.Point `json:"volume_step"`
	VolumeLimit   fixed.Point `json:"volume_limit"`
	MarginInitial fixed.Point `json:"margin_initial"`
	MarginMaint   fixed.Point `json:"margin_maintenance"`
	TickValue     fixed.Point `json:"tick_value"`
	TickSize      fixed.Point `json:"tick_size"`
	FaceValue     fixed.Point `json:"face_value"`
	AccruedRate   fixed.Point `json:"accrued_interest"`
	LiquidityRate fixed.Point `json:"liquidity_rate"`
	QuoteCurrency string      `json:"quote_currency,omitempty"`
}

// Point returns the smallest quoted price increment, 10^-digits.
func (s SymbolSpec) Point() fixed.Point {
	return fixed.PointSize(s.Digits)
}

// StopsDistance is the minimum SL/TP distance from the entry price.
func (s SymbolSpec) StopsDistance() fixed.Point {
	return s.Point().MulInt(s.StopsLevel)
}

// FreezeDistance is the distance from the market inside which pending orders
// and SL/TP levels may not be modified.
func (s SymbolSpec) FreezeDistance() fixed.Point {
	return s.Point().MulInt(s.FreezeLevel)
}

// PriceEqual reports whether two prices are equal within the symbol's point
// size. The simulator uses it wherever the venue requires a request price to
// match the current market.
func (s SymbolSpec) PriceEqual(a, b fixed.Point) bool {
	return a.Sub(b).Abs().Lte(s.Point())
}

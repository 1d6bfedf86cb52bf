package cmd

import (
	"fmt"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// catalog resolves instrument parameters for the built-in demo symbols. A
// real deployment would load these from the venue.
type catalog map[string]common.SymbolSpec

func (c catalog) GetSymbol(symbol string) (common.SymbolSpec, error) {
	spec, ok := c[symbol]
	if !ok {
		return common.SymbolSpec{}, fmt.Errorf("symbol %s not in catalog", symbol)
	}
	return spec, nil
}

func defaultCatalog() catalog {
	fxMajor := common.SymbolSpec{
		Digits:        5,
		SpreadPoints:  10,
		ContractSize:  fixed.FromInt(100000, 0),
		MarginMode:    common.MarginModeForex,
		StopsLevel:    10,
		FreezeLevel:   5,
		VolumeMin:     fixed.MustFromString("0.01"),
		VolumeMax:     fixed.FromInt(100, 0),
		VolumeStep:    fixed.MustFromString("0.01"),
		TickValue:     fixed.One,
		TickSize:      fixed.MustFromString("0.00001"),
		QuoteCurrency: "USD",
	}

	eurusd := fxMajor
	eurusd.Name = "EURUSD"

	gbpusd := fxMajor
	gbpusd.Name = "GBPUSD"
	gbpusd.SpreadPoints = 15

	usdjpy := fxMajor
	usdjpy.Name = "USDJPY"
	usdjpy.Digits = 3
	usdjpy.TickSize = fixed.MustFromString("0.001")
	usdjpy.QuoteCurrency = "JPY"

	xauusd := common.SymbolSpec{
		Name:          "XAUUSD",
		Digits:        2,
		SpreadPoints:  30,
		ContractSize:  fixed.FromInt(100, 0),
		MarginMode:    common.MarginModeCFD,
		StopsLevel:    50,
		FreezeLevel:   20,
		VolumeMin:     fixed.MustFromString("0.01"),
		VolumeMax:     fixed.FromInt(50, 0),
		VolumeStep:    fixed.MustFromString("0.01"),
		TickValue:     fixed.One,
		TickSize:      fixed.MustFromString("0.01"),
		QuoteCurrency: "USD",
	}

	return catalog{
		eurusd.Name: eurusd,
		gbpusd.Name: gbpusd,
		usdjpy.Name: usdjpy,
		xauusd.Name: xauusd,
	}
}

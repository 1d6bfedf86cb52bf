package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

func forexSpec() common.SymbolSpec {
	return common.SymbolSpec{
		Name:         "EURUSD",
		Digits:       5,
		ContractSize: fixed.FromInt(100000, 0),
		MarginMode:   common.MarginModeForex,
		VolumeMin:    fixed.FromInt(1, 2),
		VolumeMax:    fixed.FromInt(100, 0),
		VolumeStep:   fixed.FromInt(1, 2),
		StopsLevel:   10,
		FreezeLevel:  5,
	}
}

func TestOrderMargin_Forex(t *testing.T) {
	spec := forexSpec()

	margin, err := OrderMargin(spec, 100, fixed.FromInt(1, 1), fixed.MustFromString("1.1000"))
	require.NoError(t, err)
	assert.True(t, margin.Eq(fixed.FromInt(110, 0)), "got %s", margin)
}

func TestOrderMargin_ForexRoundTrip(t *testing.T) {
	// volume=1: margin == contract_size * price / leverage exactly
	spec := forexSpec()

	margin, err := OrderMargin(spec, 30, fixed.One, fixed.MustFromString("1.2000"))
	require.NoError(t, err)

	want := spec.ContractSize.Mul(fixed.MustFromString("1.2000")).DivInt64(30).Round(2)
	assert.True(t, margin.Eq(want), "got %s want %s", margin, want)
}

func TestOrderMargin_Modes(t *testing.T) {
	price := fixed.MustFromString("50.00")
	volume := fixed.FromInt(2, 0)

	testCases := []struct {
		name   string
		mutate func(*common.SymbolSpec)
		want   fixed.Point
	}{
		{
			name:   "forex no leverage",
			mutate: func(s *common.SymbolSpec) { s.MarginMode = common.MarginModeForexNoLeverage },
			want:   fixed.FromInt(10000000, 0),
		},
		{
			name: "cfd uses margin rate",
			mutate: func(s *common.SymbolSpec) {
				s.MarginMode = common.MarginModeCFD
				s.MarginInitial = fixed.MustFromString("0.1")
			},
			want: fixed.FromInt(1000000, 0),
		},
		{
			name: "cfd falls back to maintenance rate",
			mutate: func(s *common.SymbolSpec) {
				s.MarginMode = common.MarginModeCFD
				s.MarginMaint = fixed.MustFromString("0.2")
			},
			want: fixed.FromInt(2000000, 0),
		},
		{
			name: "cfd leverage divides by leverage",
			mutate: func(s *common.SymbolSpec) {
				s.MarginMode = common.MarginModeCFDLeverage
				s.MarginInitial = fixed.MustFromString("0.1")
			},
			want: fixed.FromInt(10000, 0),
		},
		{
			name: "futures uses initial margin only",
			mutate: func(s *common.SymbolSpec) {
				s.MarginMode = common.MarginModeFutures
				s.MarginInitial = fixed.FromInt(500, 0)
			},
			want: fixed.FromInt(1000, 0),
		},
		{
			name: "bonds",
			mutate: func(s *common.SymbolSpec) {
				s.MarginMode = common.MarginModeExchangeBonds
				s.FaceValue = fixed.FromInt(1000, 0)
			},
			want: fixed.FromInt(100000000, 0),
		},
		{
			name:   "server collateral is free",
			mutate: func(s *common.SymbolSpec) { s.MarginMode = common.MarginModeServerCollateral },
			want:   fixed.Zero,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := forexSpec()
			tc.mutate(&spec)

			margin, err := OrderMargin(spec, 100, volume, price)
			require.NoError(t, err)
			assert.True(t, margin.Eq(tc.want), "got %s want %s", margin, tc.want)
		})
	}
}

func TestOrderMargin_UnknownMode(t *testing.T) {
	spec := forexSpec()
	spec.MarginMode = common.MarginMode(99)

	_, err := OrderMargin(spec, 100, fixed.One, fixed.One)
	assert.Error(t, err)
}

func TestOrderMargin_InvalidLeverage(t *testing.T) {
	_, err := OrderMargin(forexSpec(), 0, fixed.One, fixed.One)
	assert.Error(t, err)
}

package synthetic

import (
	"math/rand"
	"time"

	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// NewEURUSDTickGenerator builds a generator tuned to typical EURUSD spread
// and tick-rate characteristics. mu and sigma are annualized drift and
// volatility.
func NewEURUSDTickGenerator(symbol string, rng *rand.Rand, startTime time.Time, duration time.Duration, mu, sigma float64) *TickGenerator {

	const (
		eurUsdStartPrice    = 1.0550
		eurUsdTypicalSpread = 0.00003
		eurUsdMinSpread     = 0.00001
		eurUsdMaxSpread     = 0.00006

		avgTickIntervalSeconds = 1
		tickTimingVariability  = 0.45

		avgVolumeUnits    = 1
		volumeVariability = 0.65

		spreadVolatility = 0.12
	)

	totalSeconds := int64(duration.Seconds())
	avgTickInterval := time.Duration(avgTickIntervalSeconds * float64(time.Second))
	estimatedTicks := totalSeconds / int64(avgTickIntervalSeconds)

	secondsPerYear := 365.25 * 24 * 3600
	deltaT := fixed.FromFloat64(avgTickIntervalSeconds / secondsPerYear)

	tickGenerator := NewTickGenerator(
		symbol,
		rng,
		startTime,
		fixed.FromFloat64(eurUsdStartPrice),
		fixed.FromFloat64(eurUsdTypicalSpread),
		fixed.FromFloat64(mu),
		fixed.FromFloat64(sigma),
		deltaT,
		estimatedTicks,
	)

	tickGenerator.SetTickParameters(avgTickInterval, tickTimingVariability, fixed.FromInt(avgVolumeUnits, 0), volumeVariability)
	tickGenerator.SetSpreadDynamics(spreadVolatility, fixed.FromFloat64(eurUsdMinSpread), fixed.FromFloat64(eurUsdMaxSpread))
	tickGenerator.SetPriceDigits(5)
	tickGenerator.SetVolumeDigits(2)

	return tickGenerator
}

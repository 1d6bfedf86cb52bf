package fixed

var (
	Zero    = FromInt(0, 0)
	One     = FromInt(1, 0)
	Ten     = FromInt(10, 0)
	Hundred = FromInt(100, 0)

	// PriceStepEpsilon is the relative tolerance used when checking that a
	// volume is an integer multiple of the symbol volume step.
	PriceStepEpsilon = FromInt64(1, 7)

	// Sqrt252 annualizes daily return statistics over a 252-day trading year.
	Sqrt252 = FromInt(252, 0).Sqrt()
)

// PointSize returns the minimal quoted price increment for the given number
// of digits, 10^-digits.
func PointSize(digits int) Point {
	return FromInt(1, digits)
}

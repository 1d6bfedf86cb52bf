package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func points(values ...string) []Point {
	out := make([]Point, 0, len(values))
	for _, v := range values {
		out = append(out, MustFromString(v))
	}
	return out
}

func TestMean(t *testing.T) {
	assert.True(t, Mean(nil).IsZero())
	assert.True(t, Mean(points("1", "2", "3")).Eq(MustFromString("2")))
}

func TestStdDev(t *testing.T) {
	assert.True(t, StdDev(points("5"), MustFromString("5")).IsZero())

	data := points("2", "4", "4", "4", "5", "5", "7", "9")
	got := StdDev(data, Mean(data))
	assert.True(t, got.Eq(MustFromString("2")), got.String())
}

func TestDownsideDev(t *testing.T) {
	// Only one value below the threshold, not enough to measure.
	assert.True(t, DownsideDev(points("1", "-1"), Zero).IsZero())

	got := DownsideDev(points("-3", "-4", "2", "5"), Zero)
	assert.True(t, got.IsPos())
}

func TestSharpeRatio(t *testing.T) {
	assert.True(t, SharpeRatio(points("1", "1", "1"), Zero).IsZero())

	got := SharpeRatio(points("1", "3"), Zero)
	assert.True(t, got.Eq(MustFromString("2")), got.String())
}

func TestSortinoRatio(t *testing.T) {
	// No downside at all, the ratio is undefined and reported as zero.
	assert.True(t, SortinoRatio(points("1", "2"), Zero).IsZero())

	got := SortinoRatio(points("-1", "-1", "2", "4"), Zero)
	assert.True(t, got.Eq(MustFromString("1")), got.String())
}

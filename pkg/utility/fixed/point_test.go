package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_Arithmetic(t *testing.T) {
	a := FromFloat64(1.1000)
	b := FromFloat64(0.0050)

	assert.Equal(t, "1.105", a.Add(b).String())
	assert.Equal(t, "1.095", a.Sub(b).String())
	assert.Equal(t, "110000", a.MulInt64(100000).String())
}

func TestPoint_DivisionKeepsPrecision(t *testing.T) {
	v := FromInt(110000, 0).DivInt64(100)
	assert.Equal(t, "1100", v.String())

	step := FromFloat64(0.01)
	count := FromFloat64(0.07).Div(step)
	assert.True(t, count.Sub(count.Round(0)).Abs().Lte(PriceStepEpsilon))
}

func TestPoint_Comparisons(t *testing.T) {
	a := FromFloat64(1.2000)
	b := FromFloat64(1.19999)

	assert.True(t, a.Gt(b))
	assert.True(t, b.Lt(a))
	assert.True(t, a.Gte(FromFloat64(1.2)))
	assert.True(t, a.Lte(FromFloat64(1.2)))
	assert.True(t, a.Eq(FromInt64(12, 1)))
}

func TestPoint_PointSize(t *testing.T) {
	assert.Equal(t, "0.00001", PointSize(5).String())
	assert.Equal(t, "0.01", PointSize(2).String())
	assert.Equal(t, "1", PointSize(0).String())
}

func TestPoint_FromString(t *testing.T) {
	p, err := FromString("1.1050")
	require.NoError(t, err)
	assert.Equal(t, "1.1050", p.String())

	_, err = FromString("not-a-number")
	require.Error(t, err)
}

func TestPoint_TextRoundTrip(t *testing.T) {
	p := FromFloat64(1234.56)
	data, err := p.MarshalText()
	require.NoError(t, err)

	var q Point
	require.NoError(t, q.UnmarshalText(data))
	assert.True(t, p.Eq(q))
}

func TestPoint_Rounding(t *testing.T) {
	p := FromFloat64(110.005)
	assert.Equal(t, "110.00", p.Round(2).String())
	assert.Equal(t, "110.00", p.Trunc(2).String())
	assert.Equal(t, "110.01", FromFloat64(110.006).Round(2).String())
}

package historical

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/datasource"
)

func writeTicks(t *testing.T, path string, ticks []BinaryTick) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	for i := range ticks {
		buffer := (*[unsafe.Sizeof(ticks[i])]byte)(unsafe.Pointer(&ticks[i]))[:]
		_, err := f.Write(buffer)
		require.NoError(t, err)
	}
}

func TestTickReader_RangeAndOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "eurusd.bin")

	var ticks []BinaryTick
	for i := 0; i < 10; i++ {
		ticks = append(ticks, BinaryTick{
			TimeStamp: base.Add(time.Duration(i) * time.Second).UnixNano(),
			Bid:       1.1000 + float64(i)*0.0001,
			Ask:       1.1001 + float64(i)*0.0001,
		})
	}
	writeTicks(t, path, ticks)

	source := NewSource[BinaryTick](path)
	require.NoError(t, source.Open())
	defer source.Close()

	count, err := source.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)

	// window covering entries 3..6
	reader := NewTickReader(source, "EURUSD", base.Add(3*time.Second), base.Add(6*time.Second))

	var got int
	for {
		tick, err := reader.GetNext()
		if errors.Is(err, datasource.ErrEof) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, "EURUSD", tick.Symbol)
		assert.False(t, tick.TimeStamp.Before(base.Add(3*time.Second)))
		got++
	}
	assert.Equal(t, 4, got)
}

func TestTickReader_ExhaustsAtFileEnd(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "eurusd.bin")
	writeTicks(t, path, []BinaryTick{{TimeStamp: base.UnixNano(), Bid: 1.1, Ask: 1.1001}})

	source := NewSource[BinaryTick](path)
	require.NoError(t, source.Open())
	defer source.Close()

	reader := NewTickReader(source, "EURUSD", base, base.Add(time.Hour))

	_, err := reader.GetNext()
	require.NoError(t, err)
	_, err = reader.GetNext()
	assert.ErrorIs(t, err, datasource.ErrEof)
}

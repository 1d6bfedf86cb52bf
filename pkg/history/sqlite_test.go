package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

func testDeal(ticket int64, at time.Time) common.Deal {
	return common.Deal{
		Ticket:     ticket,
		Order:      ticket + 1,
		Position:   ticket + 2,
		Symbol:     "EURUSD",
		Type:       common.OrderTypeSell,
		Entry:      common.DealEntryOut,
		Reason:     common.DealReasonTP,
		Volume:     fixed.MustFromString("0.1"),
		Price:      fixed.MustFromString("1.1050"),
		Commission: fixed.MustFromString("-0.2"),
		Profit:     fixed.MustFromString("50.00"),
		Magic:      7,
		Comment:    "tp hit",
		Time:       at,
	}
}

func TestSQLiteJournal_AppendAndQuery(t *testing.T) {
	journal, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer journal.Close()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, journal.Append(testDeal(100, start.Add(time.Hour)), fixed.MustFromString("1049.8")))
	require.NoError(t, journal.Append(testDeal(200, start.Add(2*time.Hour)), fixed.MustFromString("1099.6")))

	records, err := journal.DealsBetween(start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(100), first.Deal.Ticket)
	assert.Equal(t, "EURUSD", first.Deal.Symbol)
	assert.Equal(t, common.OrderTypeSell, first.Deal.Type)
	assert.Equal(t, common.DealEntryOut, first.Deal.Entry)
	assert.Equal(t, common.DealReasonTP, first.Deal.Reason)
	assert.True(t, first.Deal.Profit.Eq(fixed.MustFromString("50.00")))
	assert.True(t, first.Balance.Eq(fixed.MustFromString("1049.8")))
}

func TestSQLiteJournal_RangeExcludesEnd(t *testing.T) {
	journal, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer journal.Close()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	require.NoError(t, journal.Append(testDeal(100, start), fixed.FromInt(1000, 0)))
	require.NoError(t, journal.Append(testDeal(200, end), fixed.FromInt(1100, 0)))

	records, err := journal.DealsBetween(start, end)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].Deal.Ticket)
}

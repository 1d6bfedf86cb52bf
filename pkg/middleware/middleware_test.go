package middleware

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

func TestTelemetryCountsEvents(t *testing.T) {
	telemetry := NewTelemetry(zap.NewNop())

	calls := 0
	onTick := telemetry.WithTick(func(context.Context, common.Tick) { calls++ })
	onDeal := telemetry.WithDeal(func(context.Context, common.Deal) { calls++ })

	ctx := context.Background()
	for range 3 {
		onTick(ctx, common.Tick{Symbol: "EURUSD"})
	}
	onDeal(ctx, common.Deal{})

	assert.Equal(t, 4, calls)
	assert.Equal(t, int64(3), telemetry.tickEventCounter)
	assert.Equal(t, int64(1), telemetry.dealEventCounter)
}

func TestPerformanceTimesHandlers(t *testing.T) {
	perf := NewPerformance(zap.NewNop())

	onTick := perf.WithTick(func(context.Context, common.Tick) {
		time.Sleep(time.Millisecond)
	})
	onTick(context.Background(), common.Tick{})
	onTick(context.Background(), common.Tick{})

	assert.Equal(t, int64(2), perf.tick.count)
	assert.GreaterOrEqual(t, perf.tick.total, 2*time.Millisecond)
}

func TestChainComposesBusWrappers(t *testing.T) {
	telemetry := NewTelemetry(zap.NewNop())
	perf := NewPerformance(zap.NewNop())
	monitor := NewMonitor(MonitorNone)

	var seen common.Tick
	handler := Chain(monitor.WithTick, telemetry.WithTick, perf.WithTick)(
		func(_ context.Context, tick common.Tick) { seen = tick },
	)

	router := bus.NewRouter(8)
	router.OnTick = handler
	require.NoError(t, router.Post(bus.TickEvent, common.Tick{Symbol: "GBPUSD"}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	router.Exec(ctx)
	<-router.Done()

	assert.Equal(t, "GBPUSD", seen.Symbol)
	assert.Equal(t, int64(1), telemetry.tickEventCounter)
	assert.Equal(t, int64(1), perf.tick.count)
}

func TestLedgerPersistsSnapshots(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ledger, err := NewLedger(db)
	require.NoError(t, err)

	handler := ledger.WithSnapshot(NoopSnapshotHdl)
	handler(context.Background(), common.Snapshot{
		Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Account: common.Account{
			Balance:    fixed.FromInt(1000, 0),
			Equity:     fixed.MustFromString("1010.50"),
			Margin:     fixed.FromInt(110, 0),
			MarginFree: fixed.MustFromString("900.50"),
		},
		Positions: []common.Position{{Ticket: 1}},
	})

	var (
		count  int
		equity string
	)
	require.NoError(t, db.QueryRow("SELECT COUNT(*), MAX(equity) FROM equity_curve").Scan(&count, &equity))
	assert.Equal(t, 1, count)
	assert.Equal(t, "1010.50", equity)
}

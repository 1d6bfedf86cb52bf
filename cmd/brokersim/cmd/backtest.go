package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/cmd/brokersim/advisor"
	"github.com/quantlab-fx/brokersim/internal/dbg"
	"github.com/quantlab-fx/brokersim/pkg/broker"
	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/config"
	"github.com/quantlab-fx/brokersim/pkg/datasource"
	"github.com/quantlab-fx/brokersim/pkg/datasource/duckdb"
	"github.com/quantlab-fx/brokersim/pkg/datasource/historical"
	"github.com/quantlab-fx/brokersim/pkg/datasource/replay"
	"github.com/quantlab-fx/brokersim/pkg/history"
	"github.com/quantlab-fx/brokersim/pkg/middleware"
	"github.com/quantlab-fx/brokersim/pkg/simulation"
	"github.com/quantlab-fx/brokersim/pkg/utility"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

const routerEventCapacity = 1024

var backtestConfigPath string

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay recorded data through the simulated broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(backtestConfigPath)
		if err != nil {
			return err
		}
		return runBacktest(cfg)
	},
}

func init() {
	backtestCmd.Flags().StringVarP(&backtestConfigPath, "config", "c", "config.json", "path to the tester configuration")
}

func runBacktest(cfg config.Config) error {
	logger := newLogger(cfg)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Info("brokersim backtest",
		zap.String("version", Version),
		zap.String("execution_id", utility.GetExecutionID().String()),
		zap.Strings("symbols", cfg.Symbols),
		zap.Time("from", cfg.From),
		zap.Time("to", cfg.To),
		zap.String("modelling", cfg.Modelling.String()))
	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	specs := defaultCatalog()
	feed := replay.NewFeed()

	cleanup, err := subscribeStreams(ctx, cfg, specs, feed)
	if err != nil {
		return err
	}
	defer cleanup()

	journalPath := cfg.JournalPath
	if journalPath == "" {
		journalPath = ":memory:"
	}
	journal, err := history.Open(ctx, journalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() {
		_ = journal.Close()
	}()

	router := bus.NewRouter(routerEventCapacity)
	account := common.Account{
		Balance:        cfg.Deposit,
		Leverage:       cfg.Leverage,
		LimitOrders:    200,
		CurrencyDigits: 2,
		Currency:       cfg.Currency,
	}
	engine := broker.NewEngine(logger, feed, specs, account,
		broker.WithRouter(router),
		broker.WithJournal(journal),
		broker.WithCommissionHandler(broker.FlatCommission(fixed.MustFromString("3.5"))))

	period, err := time.ParseDuration(cfg.Timeframe)
	if err != nil {
		return fmt.Errorf("timeframe: %w", err)
	}

	strategy := advisor.NewStrategy(logger, engine, cfg.Symbols[0], fixed.MustFromString("0.10"))
	runner, audit, telemetry := wirePipeline(logger, router, feed, engine, period, strategy)

	if cfg.PushoverToken != "" && cfg.PushoverUser != "" {
		pushover := middleware.NewPushover(cfg.PushoverUser, cfg.PushoverToken, cfg.PushoverDevice)
		router.OnPositionClosed = pushover.WithPositionClosed(router.OnPositionClosed)
	}

	if err := runner.Run(ctx); err != nil {
		return err
	}

	audit.GenerateReport().Print(logger)
	telemetry.PrintStatistics()
	router.Statistics().Print(logger)
	return nil
}

// wirePipeline assembles the event chains shared by the backtest and synth
// commands and returns the parts the caller reports on afterwards.
func wirePipeline(logger *zap.Logger, router *bus.Router, feed *replay.Feed, engine *broker.Engine,
	period time.Duration, strategy *advisor.Strategy) (*simulation.Runner, *simulation.Audit, *middleware.Telemetry) {

	monitor := middleware.NewMonitor(middleware.MonitorPositionsOpened | middleware.MonitorPositionsClosed | middleware.MonitorOrdersRejected)
	telemetry := middleware.NewTelemetry(logger)
	performance := middleware.NewPerformance(logger)
	audit := simulation.NewAudit(time.Minute)

	router.OnTick = middleware.Chain(telemetry.WithTick, performance.WithTick)(strategy.OnTick)
	router.OnBar = middleware.Chain(telemetry.WithBar, performance.WithBar)(strategy.OnBar)
	router.OnSnapshot = telemetry.WithSnapshot(audit.OnSnapshot)
	router.OnDeal = telemetry.WithDeal(audit.OnDeal)
	router.OnPositionOpened = monitor.WithPositionOpened(middleware.NoopPositionHdl)
	router.OnPositionClosed = monitor.WithPositionClosed(middleware.NoopPositionHdl)
	router.OnOrderRejected = monitor.WithOrderRejected(middleware.NoopRejectHdl)

	bars := simulation.NewAggregator(period, router)
	return simulation.NewRunner(logger, router, feed, engine, bars), audit, telemetry
}

// subscribeStreams attaches one stream per configured symbol: raw binary
// ticks for real-tick modelling, synthesized ticks from duckdb candles for
// the bar-driven modes.
func subscribeStreams(ctx context.Context, cfg config.Config, specs catalog, feed *replay.Feed) (func(), error) {
	var closers []func()
	cleanup := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	if cfg.Modelling == datasource.RealTicks {
		for _, symbol := range cfg.Symbols {
			source := historical.NewSource[historical.BinaryTick](
				filepath.Join(cfg.DataDir, strings.ToLower(symbol)+"_ticks.bin"))
			if err := source.Open(); err != nil {
				cleanup()
				return nil, fmt.Errorf("open tick source for %s: %w", symbol, err)
			}
			closers = append(closers, source.Close)
			feed.Subscribe(symbol, historical.NewTickReader(source, symbol, cfg.From, cfg.To))
		}
		return cleanup, nil
	}

	reader := duckdb.NewReader(filepath.Join(cfg.DataDir, "market.duckdb"))
	if err := reader.Connect(); err != nil {
		return nil, fmt.Errorf("connect duckdb: %w", err)
	}
	closers = append(closers, reader.Close)

	timeframe := cfg.Timeframe
	if cfg.Modelling == datasource.OHLCMinute {
		timeframe = "1m"
	}
	period, err := time.ParseDuration(timeframe)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("timeframe: %w", err)
	}

	for _, symbol := range cfg.Symbols {
		spec, err := specs.GetSymbol(symbol)
		if err != nil {
			cleanup()
			return nil, err
		}

		var bars []common.Bar
		err = reader.LoadBars(ctx, symbol, timeframeTable(timeframe), cfg.From, cfg.To, period,
			func(bar common.Bar) error {
				bars = append(bars, bar)
				return nil
			})
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
		}

		spread := spec.Point().MulInt(spec.SpreadPoints)
		feed.Subscribe(symbol, replay.NewBarSynthesizer(&barSlice{bars: bars}, cfg.Modelling, spread))
	}
	return cleanup, nil
}

type barSlice struct {
	bars []common.Bar
	idx  int
}

func (s *barSlice) GetNext() (common.Bar, error) {
	if s.idx >= len(s.bars) {
		return common.Bar{}, datasource.ErrEof
	}
	bar := s.bars[s.idx]
	s.idx++
	return bar, nil
}

// timeframeTable maps a duration string like "5m" to the candle table suffix
// "m5" used by the research store.
func timeframeTable(timeframe string) string {
	unit := timeframe[len(timeframe)-1:]
	return unit + timeframe[:len(timeframe)-1]
}

func newLogger(cfg config.Config) *zap.Logger {
	if cfg.Development {
		return dbg.NewDevLogger()
	}
	if cfg.LogDir != "" {
		return dbg.NewFileLogger(cfg.LogDir)
	}
	return dbg.NewProdLogger()
}

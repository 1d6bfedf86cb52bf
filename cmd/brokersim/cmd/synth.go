package cmd

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab-fx/brokersim/cmd/brokersim/advisor"
	"github.com/quantlab-fx/brokersim/internal/dbg"
	"github.com/quantlab-fx/brokersim/pkg/broker"
	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/datasource/replay"
	"github.com/quantlab-fx/brokersim/pkg/datasource/synthetic"
	"github.com/quantlab-fx/brokersim/pkg/utility"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

var (
	synthDuration time.Duration
	synthDeposit  string
	synthSeed     int64
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Run the demo strategy on synthetic EURUSD quotes",
	Long:  "Generates a geometric-brownian-motion tick stream, so the full pipeline can be exercised without any recorded data.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynth()
	},
}

func init() {
	synthCmd.Flags().DurationVar(&synthDuration, "duration", 24*time.Hour, "simulated market time")
	synthCmd.Flags().StringVar(&synthDeposit, "deposit", "10000", "starting balance")
	synthCmd.Flags().Int64Var(&synthSeed, "seed", 42, "random seed")
}

func runSynth() error {
	logger := dbg.NewDevLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	deposit, err := fixed.FromString(synthDeposit)
	if err != nil {
		return err
	}

	logger.Info("brokersim synth",
		zap.String("version", Version),
		zap.String("execution_id", utility.GetExecutionID().String()),
		zap.Duration("duration", synthDuration),
		zap.Int64("seed", synthSeed))
	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rng := rand.New(rand.NewSource(synthSeed))
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	generator := synthetic.NewEURUSDTickGenerator("EURUSD", rng, start, synthDuration, 0.02, 0.08)

	feed := replay.NewFeed()
	feed.Subscribe("EURUSD", generator)

	router := bus.NewRouter(routerEventCapacity)
	account := common.Account{
		Balance:        deposit,
		Leverage:       100,
		LimitOrders:    200,
		CurrencyDigits: 2,
		Currency:       "USD",
	}
	engine := broker.NewEngine(logger, feed, defaultCatalog(), account,
		broker.WithRouter(router),
		broker.WithCommissionHandler(broker.FlatCommission(fixed.MustFromString("3.5"))))

	strategy := advisor.NewStrategy(logger, engine, "EURUSD", fixed.MustFromString("0.10"))
	runner, audit, telemetry := wirePipeline(logger, router, feed, engine, time.Minute, strategy)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	audit.GenerateReport().Print(logger)
	telemetry.PrintStatistics()
	router.Statistics().Print(logger)
	return nil
}

package simulation

import (
	"context"
	"time"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

type accountSnapshot struct {
	balance fixed.Point
	equity  fixed.Point
	t       time.Time
}

// Audit records the equity curve and the round trips of a run. Attach
// OnSnapshot and OnDeal to the router and call GenerateReport afterwards.
type Audit struct {
	minSnapshotInterval time.Duration

	accountSnapshots []accountSnapshot
	closedDeals      []common.Deal
	openedAt         map[common.Ticket]time.Time
	durations        []time.Duration
}

func NewAudit(minSnapshotInterval time.Duration) *Audit {
	return &Audit{
		minSnapshotInterval: minSnapshotInterval,
		openedAt:            make(map[common.Ticket]time.Time),
	}
}

func (a *Audit) OnSnapshot(_ context.Context, snapshot common.Snapshot) {
	if len(a.accountSnapshots) == 0 ||
		snapshot.Time.Sub(a.accountSnapshots[len(a.accountSnapshots)-1].t) >= a.minSnapshotInterval {
		a.accountSnapshots = append(a.accountSnapshots, accountSnapshot{
			balance: snapshot.Account.Balance,
			equity:  snapshot.Account.Equity,
			t:       snapshot.Time,
		})
	}
}

func (a *Audit) OnDeal(_ context.Context, deal common.Deal) {
	switch deal.Entry {
	case common.DealEntryIn:
		a.openedAt[deal.Position] = deal.Time
	case common.DealEntryOut:
		a.closedDeals = append(a.closedDeals, deal)
		if opened, ok := a.openedAt[deal.Position]; ok {
			a.durations = append(a.durations, deal.Time.Sub(opened))
			delete(a.openedAt, deal.Position)
		}
	}
}

func (a *Audit) GenerateReport() Report {
	report := Report{}
	if len(a.accountSnapshots) == 0 {
		return report
	}

	auditedDays := a.dayCount()
	year := fixed.FromInt64(36500, 2)

	report.StartDate = a.accountSnapshots[0].t
	report.InitialEquity = a.accountSnapshots[0].equity
	report.EndDate = a.accountSnapshots[len(a.accountSnapshots)-1].t
	report.FinalEquity = a.accountSnapshots[len(a.accountSnapshots)-1].equity

	report.TotalProfit = report.FinalEquity.Div(report.InitialEquity).Sub(fixed.One).MulInt64(100).Rescale(2)
	if auditedDays > 0 && report.InitialEquity.IsPos() && report.FinalEquity.IsPos() {
		ratio := report.FinalEquity.Div(report.InitialEquity)
		exponent := year.DivInt64(int64(auditedDays))
		report.AnnualizedReturn = ratio.Pow(exponent).Sub(fixed.One).MulInt64(100).Rescale(2)
	}

	maxEquity := report.InitialEquity
	for _, snapshot := range a.accountSnapshots {
		if snapshot.equity.Gt(maxEquity) {
			maxEquity = snapshot.equity
		}
		drawdown := maxEquity.Sub(snapshot.equity).Div(maxEquity)
		if drawdown.Gt(report.MaxDrawdown) {
			report.MaxDrawdown = drawdown
		}
	}

	var totalProfit, totalLoss fixed.Point
	for _, deal := range a.closedDeals {
		report.TotalTrades++

		net := deal.Profit.Add(deal.Commission).Add(deal.Swap)
		if net.IsPos() {
			totalProfit = totalProfit.Add(net)
			report.WinningTrades++
		} else {
			totalLoss = totalLoss.Add(net.Neg())
			report.LosingTrades++
		}
	}

	if report.WinningTrades > 0 {
		report.AverageWin = totalProfit.DivInt(report.WinningTrades)
	}
	if report.LosingTrades > 0 {
		report.AverageLoss = totalLoss.DivInt(report.LosingTrades)
	}
	if totalLoss.IsPos() {
		report.ProfitFactor = totalProfit.Div(totalLoss)
	}
	if report.AverageLoss.IsPos() {
		report.RiskRewardRatio = report.AverageWin.Div(report.AverageLoss)
	}
	if report.TotalTrades > 0 {
		report.Expectancy = totalProfit.Sub(totalLoss).DivInt(report.TotalTrades)
		report.WinRate = fixed.FromInt(report.WinningTrades, 0).DivInt(report.TotalTrades).MulInt64(100).Rescale(2)
	}
	if len(a.durations) > 0 {
		var total time.Duration
		for _, d := range a.durations {
			total += d
		}
		report.AverageTradeDuration = total / time.Duration(len(a.durations))
	}
	if report.MaxDrawdown.IsPos() {
		report.RecoveryFactor = report.TotalProfit.Div(report.MaxDrawdown)
	}
	report.MaxDrawdown = report.MaxDrawdown.MulInt64(100).Rescale(2)

	dailyReturns := a.dailyReturns()
	meanReturn := fixed.Mean(dailyReturns)
	vol := fixed.StdDev(dailyReturns, meanReturn)

	if !meanReturn.IsZero() && !vol.IsZero() {
		report.AnnualizedVolatility = vol.Mul(fixed.Sqrt252).MulInt64(100).Rescale(2)
		report.SharpeRatio = fixed.SharpeRatio(dailyReturns, fixed.Zero).Mul(fixed.Sqrt252).Rescale(5)
		report.SortinoRatio = fixed.SortinoRatio(dailyReturns, fixed.Zero).Mul(fixed.Sqrt252).Rescale(5)
	}

	return report
}

func (a *Audit) dayCount() int {
	if len(a.accountSnapshots) < 2 {
		return 1
	}
	start := a.accountSnapshots[0].t
	end := a.accountSnapshots[len(a.accountSnapshots)-1].t
	return int(end.Sub(start).Hours()/24) + 1
}

func (a *Audit) dailyReturns() []fixed.Point {
	var dailyReturns []fixed.Point
	if len(a.accountSnapshots) < 2 {
		return dailyReturns
	}

	var (
		prevDate   = a.accountSnapshots[0].t.Truncate(24 * time.Hour)
		prevEquity = a.accountSnapshots[0].equity
	)

	for _, snapshot := range a.accountSnapshots[1:] {
		currDate := snapshot.t.Truncate(24 * time.Hour)

		if currDate.After(prevDate) {
			dailyReturns = append(dailyReturns, snapshot.equity.Div(prevEquity).Sub(fixed.One))
			prevDate = currDate
			prevEquity = snapshot.equity
		}
	}

	return dailyReturns
}

package middleware

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/quantlab-fx/brokersim/pkg/bus"
	"github.com/quantlab-fx/brokersim/pkg/common"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS equity_curve (
	time DATETIME NOT NULL,
	balance TEXT NOT NULL,
	equity TEXT NOT NULL,
	margin TEXT NOT NULL,
	margin_free TEXT NOT NULL,
	open_positions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_curve_time ON equity_curve(time);
`

// Ledger streams account snapshots into a SQL table, giving a queryable
// equity curve after the run. Any database/sql driver works; the table is
// created on first use.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) (*Ledger, error) {
	if _, err := db.Exec(ledgerSchema); err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) WithSnapshot(handler bus.SnapshotEventHandler) bus.SnapshotEventHandler {
	return func(ctx context.Context, snapshot common.Snapshot) {
		if err := l.insert(ctx, snapshot); err != nil {
			slog.Warn("unable to insert equity curve row", "error", err)
		}
		handler(ctx, snapshot)
	}
}

func (l *Ledger) insert(ctx context.Context, snapshot common.Snapshot) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO equity_curve
		(time, balance, equity, margin, margin_free, open_positions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.Time,
		snapshot.Account.Balance.String(),
		snapshot.Account.Equity.String(),
		snapshot.Account.Margin.String(),
		snapshot.Account.MarginFree.String(),
		len(snapshot.Positions),
	)
	return err
}

package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS deals (
	id BIGSERIAL PRIMARY KEY,
	ticket BIGINT NOT NULL,
	order_ticket BIGINT NOT NULL,
	position_id BIGINT NOT NULL,
	time TIMESTAMPTZ NOT NULL,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	entry TEXT NOT NULL,
	reason TEXT NOT NULL,
	magic BIGINT NOT NULL,
	volume NUMERIC NOT NULL,
	price NUMERIC NOT NULL,
	commission NUMERIC NOT NULL,
	swap NUMERIC NOT NULL,
	profit NUMERIC NOT NULL,
	balance NUMERIC NOT NULL,
	comment TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_time ON deals(time);
`

// PostgresJournal is the shared-database flavor of the deal journal, for
// setups where several simulator runs report into one warehouse.
type PostgresJournal struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, host, port, user, pass, dbName string) (*PostgresJournal, error) {
	return NewPostgresURL(ctx, fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, dbName))
}

// NewPostgresURL opens the journal from a full connection string, either the
// postgres:// URL form or the key=value form.
func NewPostgresURL(ctx context.Context, connStr string) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresJournal{db: db}, nil
}

func (j *PostgresJournal) Append(deal common.Deal, balance fixed.Point) error {
	_, err := j.db.Exec(`
		INSERT INTO deals
		(ticket, order_ticket, position_id, time, symbol, type, entry, reason,
		 magic, volume, price, commission, swap, profit, balance, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		deal.Ticket, deal.Order, deal.Position, deal.Time, deal.Symbol,
		deal.Type.String(), deal.Entry.String(), deal.Reason.String(),
		deal.Magic, deal.Volume.String(), deal.Price.String(),
		deal.Commission.String(), deal.Swap.String(), deal.Profit.String(),
		balance.String(), deal.Comment,
	)
	return err
}

func (j *PostgresJournal) Close() error {
	return j.db.Close()
}

// Package duckdb streams ticks and bars out of a columnar research store.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

// LoadTicks streams the symbol's ticks in [from, to] through the handler in
// timestamp order.
func (r *Reader) LoadTicks(ctx context.Context, symbol string, from, to time.Time, handler func(tick common.Tick) error) error {
	query := fmt.Sprintf(`SELECT ts, bid, ask, volume FROM %s_ticks WHERE ts BETWEEN ? AND ? ORDER BY ts`, symbol)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			ts               time.Time
			bid, ask, volume float64
		)
		if err := rows.Scan(&ts, &bid, &ask, &volume); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		tick := common.Tick{
			Symbol:    symbol,
			Bid:       fixed.FromFloat64(bid),
			Ask:       fixed.FromFloat64(ask),
			Volume:    fixed.FromFloat64(volume),
			TimeStamp: ts,
		}
		if err := handler(tick); err != nil {
			return fmt.Errorf("error processing tick: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}
	return nil
}

// LoadBars streams OHLC candles from a timeframe table such as EURUSD_m1.
func (r *Reader) LoadBars(ctx context.Context, symbol, timeframe string, from, to time.Time, period time.Duration, handler func(bar common.Bar) error) error {
	query := fmt.Sprintf(`SELECT ts, open, high, low, close, volume FROM %s_%s WHERE ts BETWEEN ? AND ? ORDER BY ts`, symbol, timeframe)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			ts                               time.Time
			open, high, low, closePx, volume float64
		)
		if err := rows.Scan(&ts, &open, &high, &low, &closePx, &volume); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		bar := common.Bar{
			Symbol:    symbol,
			Open:      fixed.FromFloat64(open),
			High:      fixed.FromFloat64(high),
			Low:       fixed.FromFloat64(low),
			Close:     fixed.FromFloat64(closePx),
			Volume:    fixed.FromFloat64(volume),
			TimeStamp: ts,
			Period:    period,
		}
		if err := handler(bar); err != nil {
			return fmt.Errorf("error processing bar: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}
	return nil
}

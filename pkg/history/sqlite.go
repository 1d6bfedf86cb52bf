// Package history persists the append-only closed-deal audit log. The engine
// stays authoritative: a failed write here is logged by the caller and never
// rolls back in-memory state.
package history

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Record is one persisted deal row together with the balance that resulted
// from applying it.
type Record struct {
	ID      int64
	Deal    common.Deal
	Balance fixed.Point
}

type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens or creates the journal database. Use ":memory:" for an
// ephemeral journal.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

// Append writes one deal row.
func (j *SQLiteJournal) Append(deal common.Deal, balance fixed.Point) error {
	_, err := j.db.Exec(`
		INSERT INTO deals
		(ticket, order_ticket, position_id, time, symbol, type, entry, reason,
		 magic, volume, price, commission, swap, profit, balance, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		deal.Ticket, deal.Order, deal.Position, deal.Time, deal.Symbol,
		deal.Type.String(), deal.Entry.String(), deal.Reason.String(),
		deal.Magic, deal.Volume.String(), deal.Price.String(),
		deal.Commission.String(), deal.Swap.String(), deal.Profit.String(),
		balance.String(), deal.Comment,
	)
	return err
}

// DealsBetween returns rows whose time is within [start, end), oldest first.
func (j *SQLiteJournal) DealsBetween(start, end time.Time) ([]Record, error) {
	rows, err := j.db.Query(`
		SELECT id, ticket, order_ticket, position_id, time, symbol, type, entry, reason,
		       magic, volume, price, commission, swap, profit, balance, comment
		FROM deals
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, id ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		record                                           Record
		dealType, entry, reason                          string
		volume, price, commission, swap, profit, balance string
	)
	err := rows.Scan(
		&record.ID, &record.Deal.Ticket, &record.Deal.Order, &record.Deal.Position,
		&record.Deal.Time, &record.Deal.Symbol, &dealType, &entry, &reason,
		&record.Deal.Magic, &volume, &price, &commission, &swap, &profit,
		&balance, &record.Deal.Comment,
	)
	if err != nil {
		return Record{}, err
	}

	record.Deal.Type = parseOrderType(dealType)
	if entry == common.DealEntryOut.String() {
		record.Deal.Entry = common.DealEntryOut
	}
	record.Deal.Reason = parseReason(reason)

	for _, field := range []struct {
		dst *fixed.Point
		src string
	}{
		{&record.Deal.Volume, volume},
		{&record.Deal.Price, price},
		{&record.Deal.Commission, commission},
		{&record.Deal.Swap, swap},
		{&record.Deal.Profit, profit},
		{&record.Balance, balance},
	} {
		point, err := fixed.FromString(field.src)
		if err != nil {
			return Record{}, err
		}
		*field.dst = point
	}
	return record, nil
}

func parseOrderType(s string) common.OrderType {
	for _, t := range []common.OrderType{
		common.OrderTypeBuy, common.OrderTypeSell,
		common.OrderTypeBuyLimit, common.OrderTypeSellLimit,
		common.OrderTypeBuyStop, common.OrderTypeSellStop,
		common.OrderTypeBuyStopLimit, common.OrderTypeSellStopLimit,
	} {
		if t.String() == s {
			return t
		}
	}
	return common.OrderTypeBuy
}

func parseReason(s string) common.DealReason {
	switch s {
	case common.DealReasonSL.String():
		return common.DealReasonSL
	case common.DealReasonTP.String():
		return common.DealReasonTP
	}
	return common.DealReasonExpert
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

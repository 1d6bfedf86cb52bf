package history

import (
	"context"
	"strings"

	"github.com/quantlab-fx/brokersim/pkg/common"
	"github.com/quantlab-fx/brokersim/pkg/utility/fixed"
)

// Journal persists executed deals together with the running balance.
type Journal interface {
	Append(deal common.Deal, balance fixed.Point) error
	Close() error
}

// Open picks the journal backend from the path. Postgres connection URLs go
// to the shared warehouse; anything else is treated as a sqlite file path,
// ":memory:" included.
func Open(ctx context.Context, path string) (Journal, error) {
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return NewPostgresURL(ctx, path)
	}
	return NewSQLite(path)
}

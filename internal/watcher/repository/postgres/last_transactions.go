package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

// LastTransactions returns the most recently mined transactions, newest
// first, capped at limit.
func (r *Repository) LastTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("last_transactions", err, start)
	}()

	if limit <= 0 {
		return nil, nil
	}

	const query = `
SELECT
	txhash,
	txbytes,
	blknum,
	txindex,
	sent_at
FROM transactions
ORDER BY blknum DESC, txindex DESC
LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query last transactions: %w", err)
	}

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("collect last transactions: %w", err)
	}
	return txs, nil
}

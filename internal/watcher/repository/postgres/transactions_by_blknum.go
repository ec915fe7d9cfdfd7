package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
	"github.com/plasmawatch/watcher-backend/pkg/safe"
)

// TransactionsByBlknum returns all transactions mined in the given block,
// ordered by transaction index.
func (r *Repository) TransactionsByBlknum(ctx context.Context, blknum uint64) ([]model.Transaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transactions_by_blknum", err, start)
	}()

	num, err := safe.Int64(blknum)
	if err != nil {
		err = fmt.Errorf("convert blknum: %w", err)
		return nil, err
	}

	const query = `
SELECT
	txhash,
	txbytes,
	blknum,
	txindex,
	sent_at
FROM transactions
WHERE blknum = $1
ORDER BY txindex ASC`

	rows, err := r.db.Query(ctx, query, num)
	if err != nil {
		return nil, fmt.Errorf("query transactions by blknum: %w", err)
	}

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("collect transactions by blknum: %w", err)
	}
	return txs, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

// addressOverfetch widens the scan so the cap still holds after rows that
// reference the same transaction collapse. A transaction touches an address
// through at most two inputs and two outputs, so up to four joined rows
// collapse into one result.
const addressOverfetch = 4

// TransactionsByAddress returns transactions in which the address owns an
// input or an output, newest first, with at most one entry per transaction.
func (r *Repository) TransactionsByAddress(ctx context.Context, address common.Address, limit int) ([]model.Transaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transactions_by_address", err, start)
	}()

	if limit <= 0 {
		return nil, nil
	}

	const query = `
SELECT
	t.txhash,
	t.txbytes,
	t.blknum,
	t.txindex,
	t.sent_at
FROM transactions AS t
JOIN outputs AS o
	ON o.creating_txhash = t.txhash OR o.spending_txhash = t.txhash
WHERE o.owner = $1
ORDER BY t.blknum DESC, t.txindex DESC
LIMIT $2`

	rows, err := r.db.Query(ctx, query, address.Bytes(), limit*addressOverfetch)
	if err != nil {
		return nil, fmt.Errorf("query transactions by address: %w", err)
	}

	fetched, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("collect transactions by address: %w", err)
	}

	seen := make(map[common.Hash]struct{}, limit)
	var txs []model.Transaction
	for _, tx := range fetched {
		if _, ok := seen[tx.Txhash]; ok {
			continue
		}
		seen[tx.Txhash] = struct{}{}
		txs = append(txs, tx)
		if len(txs) == limit {
			break
		}
	}
	return txs, nil
}

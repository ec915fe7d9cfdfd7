package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

// Transaction returns the transaction with the given hash, or nil when none
// is stored.
func (r *Repository) Transaction(ctx context.Context, txhash common.Hash) (*model.Transaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction", err, start)
	}()

	const query = `
SELECT
	txhash,
	txbytes,
	blknum,
	txindex,
	sent_at
FROM transactions
WHERE txhash = $1`

	tx, err := scanTransaction(r.db.QueryRow(ctx, query, txhash.Bytes()))
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		err = fmt.Errorf("query transaction: %w", err)
		return nil, err
	}

	return &tx, nil
}

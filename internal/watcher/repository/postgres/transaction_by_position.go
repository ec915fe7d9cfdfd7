package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
	"github.com/plasmawatch/watcher-backend/pkg/safe"
)

// TransactionByPosition returns the transaction mined at the given block
// number and index, or nil when none is stored.
func (r *Repository) TransactionByPosition(ctx context.Context, blknum uint64, txindex uint32) (*model.Transaction, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_by_position", err, start)
	}()

	num, err := safe.Int64(blknum)
	if err != nil {
		err = fmt.Errorf("convert blknum: %w", err)
		return nil, err
	}
	index, err := safe.Int32(txindex)
	if err != nil {
		err = fmt.Errorf("convert txindex: %w", err)
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
WHERE blknum = $1 AND txindex = $2`

	tx, err := scanTransaction(r.db.QueryRow(ctx, query, num, index))
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		err = fmt.Errorf("query transaction by position: %w", err)
		return nil, err
	}

	return &tx, nil
}

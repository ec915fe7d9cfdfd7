package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/plasmawatch/watcher-backend/pkg/safe"
)

// LedgerHeight returns the highest stored block number. The second return
// value is false when no blocks are stored yet.
func (r *Repository) LedgerHeight(ctx context.Context) (uint64, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("ledger_height", err, start)
	}()

	const query = `
SELECT max(blknum) FROM blocks`

	var blknum *int64
	if err = r.db.QueryRow(ctx, query).Scan(&blknum); err != nil {
		err = fmt.Errorf("scan ledger height: %w", err)
		return 0, false, err
	}
	if blknum == nil {
		return 0, false, nil
	}

	height, err := safe.Uint64(*blknum)
	if err != nil {
		err = fmt.Errorf("convert ledger height: %w", err)
		return 0, false, err
	}
	return height, true, nil
}

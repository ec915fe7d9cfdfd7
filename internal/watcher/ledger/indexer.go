// Package ledger turns mined child chain blocks into persisted ledger rows.
package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

// Indexer derives ledger rows from mined blocks and stores them atomically.
type Indexer struct {
	repo   Repository
	logger *zap.Logger
}

// NewIndexer builds an Indexer on top of the given repository.
func NewIndexer(repo Repository, logger *zap.Logger) *Indexer {
	return &Indexer{
		repo:   repo,
		logger: logger,
	}
}

// UpdateWith persists the mined block as one unit: the block row, its
// transactions, their outputs and the spend markers for every consumed
// input. Either all rows become visible or none do.
func (ix *Indexer) UpdateWith(ctx context.Context, block model.MinedBlock) error {
	if block.Blknum == 0 {
		return fmt.Errorf("mined block without blknum")
	}

	started := time.Now()
	rows := deriveRows(block, started.UTC())
	if err := ix.repo.InsertBlockRows(ctx, rows); err != nil {
		return fmt.Errorf("store block %d: %w", block.Blknum, err)
	}

	ix.logger.Debug("stored mined block",
		zap.Uint64("blknum", block.Blknum),
		zap.Int("transactions", len(rows.Transactions)),
		zap.Int("outputs", len(rows.Outputs)),
		zap.Int("spends", len(rows.Spends)),
		zap.Duration("elapsed", time.Since(started)))

	return nil
}

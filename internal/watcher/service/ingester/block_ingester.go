// Package ingester follows the child chain and feeds mined blocks into the
// ledger in strict blknum order.
package ingester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plasmawatch/watcher-backend/internal/clock"
	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

const (
	sleepDuration = 5 * time.Second
)

// BlockIngesterService polls the block source for the next mined block,
// stores it through the ledger and publishes the derived notifications.
type BlockIngesterService struct {
	logger        *zap.Logger
	metrics       Metrics
	source        BlockSource
	ledger        Ledger
	heights       HeightSource
	deriver       EventDeriver
	publisher     Publisher
	sleep         func(context.Context, time.Duration) error
	sleepDuration time.Duration
}

// NewBlockIngesterService builds a BlockIngesterService with dependencies.
func NewBlockIngesterService(
	source BlockSource,
	ledger Ledger,
	heights HeightSource,
	deriver EventDeriver,
	publisher Publisher,
	metrics Metrics,
	logger *zap.Logger,
) (*BlockIngesterService, error) {
	if metrics == nil {
		return nil, errors.New("block ingester metrics is required")
	}

	return &BlockIngesterService{
		logger:        logger,
		metrics:       metrics,
		source:        source,
		ledger:        ledger,
		heights:       heights,
		deriver:       deriver,
		publisher:     publisher,
		sleep:         clock.SleepWithContext,
		sleepDuration: sleepDuration,
	}, nil
}

// Run resolves the resume height from the ledger and ingests blocks until the
// context is canceled or an iteration fails.
func (s *BlockIngesterService) Run(ctx context.Context) error {
	height, exists, err := s.heights.LedgerHeight(ctx)
	if err != nil {
		return fmt.Errorf("resolve resume height: %w", err)
	}

	cursor := uint64(0)
	if exists {
		cursor = height
		s.metrics.SetLedgerHeight(height)
		s.logger.Info("resuming ingestion", zap.Uint64("blknum", height))
	} else {
		s.logger.Info("starting ingestion from an empty ledger")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := s.run(ctx, cursor)
		if err != nil {
			return err
		}
		cursor = next
	}
}

// run performs one iteration and returns the cursor for the next one.
func (s *BlockIngesterService) run(ctx context.Context, cursor uint64) (uint64, error) {
	started := time.Now()
	block, err := s.source.NextAfter(ctx, cursor)
	s.metrics.ObserveFetch(err, started)
	if err != nil {
		s.logger.Error("fetch next block failed", zap.Error(err))
		return 0, err
	}

	if block == nil {
		s.logger.Debug("no new blocks mined; sleeping", zap.Duration("sleep", s.sleepDuration))
		if err := s.sleep(ctx, s.sleepDuration); err != nil {
			return 0, err
		}
		return cursor, nil
	}

	if block.Blknum <= cursor {
		return 0, fmt.Errorf("block %d does not advance past %d", block.Blknum, cursor)
	}

	if err := s.processBlock(ctx, block); err != nil {
		return 0, err
	}
	return block.Blknum, nil
}

func (s *BlockIngesterService) processBlock(ctx context.Context, block *model.MinedBlock) error {
	started := time.Now()
	err := s.ledger.UpdateWith(ctx, *block)
	s.metrics.ObserveBlock(err, len(block.Transactions), started)
	if err != nil {
		s.logger.Error("store block failed", zap.Uint64("blknum", block.Blknum), zap.Error(err))
		return err
	}
	s.metrics.SetLedgerHeight(block.Blknum)

	s.logger.Info("ingested block",
		zap.Uint64("blknum", block.Blknum),
		zap.Int("transactions", len(block.Transactions)))

	return s.publishNotifications(ctx, block)
}

func (s *BlockIngesterService) publishNotifications(ctx context.Context, block *model.MinedBlock) error {
	triggers := make([]model.Trigger, 0, len(block.Transactions)+1)
	for i := range block.Transactions {
		triggers = append(triggers, model.Trigger{Transaction: &block.Transactions[i]})
	}
	triggers = append(triggers, model.Trigger{Block: block})

	publications, err := s.deriver.Derive(triggers)
	if err != nil {
		return fmt.Errorf("derive notifications for block %d: %w", block.Blknum, err)
	}
	if len(publications) == 0 {
		return nil
	}

	if err := s.publisher.Publish(ctx, publications); err != nil {
		return fmt.Errorf("publish notifications for block %d: %w", block.Blknum, err)
	}

	s.logger.Debug("published notifications",
		zap.Uint64("blknum", block.Blknum),
		zap.Int("publications", len(publications)))

	return nil
}

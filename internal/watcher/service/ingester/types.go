package ingester

import (
	"context"
	"time"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockSource hands out the next finalized child chain block past the
	// given blknum, or nil when none has been mined yet.
	BlockSource interface {
		NextAfter(ctx context.Context, blknum uint64) (*model.MinedBlock, error)
	}
	Ledger interface {
		UpdateWith(ctx context.Context, block model.MinedBlock) error
	}
	EventDeriver interface {
		Derive(triggers []model.Trigger) ([]model.Publication, error)
	}
	Publisher interface {
		Publish(ctx context.Context, publications []model.Publication) error
	}
	HeightSource interface {
		LedgerHeight(ctx context.Context) (uint64, bool, error)
	}
	Metrics interface {
		ObserveFetch(err error, started time.Time)
		ObserveBlock(err error, transactions int, started time.Time)
		SetLedgerHeight(blknum uint64)
	}
)

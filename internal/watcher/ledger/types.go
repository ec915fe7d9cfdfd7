package ledger

import (
	"context"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertBlockRows(ctx context.Context, rows model.BlockRows) error
	}
)

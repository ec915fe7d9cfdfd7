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

var (
	// ErrUtxoNotFound reports that no output exists at the challenged position.
	ErrUtxoNotFound = errors.New("utxo not found")
	// ErrUtxoNotSpent reports that the output at the challenged position has
	// not been spent.
	ErrUtxoNotSpent = errors.New("utxo not spent")
)

// TransactionChallengingUtxo returns the transaction that spent the output at
// the given position, projected so that its only input is that output along
// with all of its outputs. It returns ErrUtxoNotFound when no output exists
// at the position and ErrUtxoNotSpent when the output is still unspent.
func (r *Repository) TransactionChallengingUtxo(ctx context.Context, position model.Position) (*model.UtxoChallenge, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_challenging_utxo", err, start)
	}()

	blknum, err := safe.Int64(position.Blknum)
	if err != nil {
		err = fmt.Errorf("convert blknum: %w", err)
		return nil, err
	}
	txindex, err := safe.Int32(position.Txindex)
	if err != nil {
		err = fmt.Errorf("convert txindex: %w", err)
		return nil, err
	}
	oindex, err := safe.Int32(position.Oindex)
	if err != nil {
		err = fmt.Errorf("convert oindex: %w", err)
		return nil, err
	}

	const outputQuery = `
SELECT
	o.creating_txhash,
	o.oindex,
	o.owner,
	o.currency,
	o.amount,
	o.spending_txhash
FROM outputs AS o
JOIN transactions AS t ON t.txhash = o.creating_txhash
WHERE t.blknum = $1 AND t.txindex = $2 AND o.oindex = $3`

	utxo, err := scanOutput(r.db.QueryRow(ctx, outputQuery, blknum, txindex, oindex))
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrUtxoNotFound
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("query challenged output: %w", err)
		return nil, err
	}
	if utxo.SpendingTxhash == nil {
		err = ErrUtxoNotSpent
		return nil, err
	}

	const txQuery = `
SELECT
	txhash,
	txbytes,
	blknum,
	txindex,
	sent_at
FROM transactions
WHERE txhash = $1`

	challenge, err := scanTransaction(r.db.QueryRow(ctx, txQuery, utxo.SpendingTxhash.Bytes()))
	if err != nil {
		err = fmt.Errorf("query challenging transaction: %w", err)
		return nil, err
	}

	const outputsQuery = `
SELECT
	creating_txhash,
	oindex,
	owner,
	currency,
	amount,
	spending_txhash
FROM outputs
WHERE creating_txhash = $1
ORDER BY oindex ASC`

	rows, err := r.db.Query(ctx, outputsQuery, utxo.SpendingTxhash.Bytes())
	if err != nil {
		err = fmt.Errorf("query challenging outputs: %w", err)
		return nil, err
	}
	outputs, err := collectOutputs(rows)
	if err != nil {
		err = fmt.Errorf("collect challenging outputs: %w", err)
		return nil, err
	}

	return &model.UtxoChallenge{
		Transaction: challenge,
		Input:       utxo,
		Outputs:     outputs,
	}, nil
}

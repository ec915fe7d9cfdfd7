package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
	"github.com/plasmawatch/watcher-backend/pkg/safe"
)

// maxStatementParams caps bind parameters per statement; the extended query
// protocol encodes the parameter count as uint16.
const maxStatementParams = 0xFFFF

const (
	transactionFields = 5
	outputFields      = 5
)

// InsertBlockRows stores a block with its transactions, outputs and spend
// markers as one database transaction. Spend markers are applied only after
// all outputs exist, so spends referencing outputs created earlier in the
// same block resolve.
func (r *Repository) InsertBlockRows(ctx context.Context, rows model.BlockRows) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_block_rows", err, start)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertBlock(ctx, tx, rows.Block); err != nil {
			return err
		}
		if err := insertTransactions(ctx, tx, rows.Transactions); err != nil {
			return err
		}
		if err := insertOutputs(ctx, tx, rows.Outputs); err != nil {
			return err
		}
		return markOutputsSpent(ctx, tx, rows.Spends)
	})
	return err
}

func insertBlock(ctx context.Context, tx pgx.Tx, block model.Block) error {
	const query = `
INSERT INTO blocks (
	blknum,
	hash,
	timestamp,
	eth_height
) VALUES ($1, $2, $3, $4)`

	blknum, err := safe.Int64(block.Blknum)
	if err != nil {
		return fmt.Errorf("convert blknum: %w", err)
	}
	timestamp, err := safe.Int64(block.Timestamp)
	if err != nil {
		return fmt.Errorf("convert timestamp: %w", err)
	}
	ethHeight, err := safe.Int64(block.EthHeight)
	if err != nil {
		return fmt.Errorf("convert eth height: %w", err)
	}

	if _, err := tx.Exec(ctx, query, blknum, block.Hash.Bytes(), timestamp, ethHeight); err != nil {
		return fmt.Errorf("insert block: %w", err)
	}
	return nil
}

func insertTransactions(ctx context.Context, tx pgx.Tx, txs []model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunkRows(txs, maxStatementParams/transactionFields) {
		args := make([]any, 0, len(chunk)*transactionFields)
		for _, t := range chunk {
			blknum, err := safe.Int64(t.Blknum)
			if err != nil {
				return fmt.Errorf("convert blknum: %w", err)
			}
			txindex, err := safe.Int32(t.Txindex)
			if err != nil {
				return fmt.Errorf("convert txindex: %w", err)
			}
			args = append(args, t.Txhash.Bytes(), t.Txbytes, blknum, txindex, t.SentAt)
		}
		batch.Queue(insertTransactionsQuery(len(chunk)), args...)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}

func insertTransactionsQuery(rows int) string {
	var b strings.Builder
	b.WriteString(`
INSERT INTO transactions (
	txhash,
	txbytes,
	blknum,
	txindex,
	sent_at
) VALUES `)
	writeValuesPlaceholders(&b, rows, transactionFields)
	return b.String()
}

func insertOutputs(ctx context.Context, tx pgx.Tx, outputs []model.Output) error {
	if len(outputs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunkRows(outputs, maxStatementParams/outputFields) {
		args := make([]any, 0, len(chunk)*outputFields)
		for _, output := range chunk {
			oindex, err := safe.Int32(output.Oindex)
			if err != nil {
				return fmt.Errorf("convert oindex: %w", err)
			}
			amount, err := safe.Int64(output.Amount)
			if err != nil {
				return fmt.Errorf("convert amount: %w", err)
			}
			args = append(args, output.CreatingTxhash.Bytes(), oindex, output.Owner.Bytes(), output.Currency.Bytes(), amount)
		}
		batch.Queue(insertOutputsQuery(len(chunk)), args...)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert outputs: %w", err)
	}
	return nil
}

func insertOutputsQuery(rows int) string {
	var b strings.Builder
	b.WriteString(`
INSERT INTO outputs (
	creating_txhash,
	oindex,
	owner,
	currency,
	amount
) VALUES `)
	writeValuesPlaceholders(&b, rows, outputFields)
	return b.String()
}

func markOutputsSpent(ctx context.Context, tx pgx.Tx, spends []model.Spend) error {
	if len(spends) == 0 {
		return nil
	}

	const query = `
UPDATE outputs AS o
SET spending_txhash = $1
FROM transactions AS t
WHERE o.creating_txhash = t.txhash
	AND t.blknum = $2
	AND t.txindex = $3
	AND o.oindex = $4`

	batch := &pgx.Batch{}
	for _, spend := range spends {
		blknum, err := safe.Int64(spend.Input.Blknum)
		if err != nil {
			return fmt.Errorf("convert blknum: %w", err)
		}
		txindex, err := safe.Int32(spend.Input.Txindex)
		if err != nil {
			return fmt.Errorf("convert txindex: %w", err)
		}
		oindex, err := safe.Int32(spend.Input.Oindex)
		if err != nil {
			return fmt.Errorf("convert oindex: %w", err)
		}
		batch.Queue(query, spend.SpendingTxhash.Bytes(), blknum, txindex, oindex)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("mark outputs spent: %w", err)
	}
	return nil
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch results: %w", err)
	}
	return nil
}

func chunkRows[T any](rows []T, size int) [][]T {
	chunks := make([][]T, 0, (len(rows)+size-1)/size)
	for len(rows) > size {
		chunks = append(chunks, rows[:size])
		rows = rows[size:]
	}
	return append(chunks, rows)
}

func writeValuesPlaceholders(b *strings.Builder, rows, fields int) {
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for field := 0; field < fields; field++ {
			if field > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "$%d", row*fields+field+1)
		}
		b.WriteByte(')')
	}
}

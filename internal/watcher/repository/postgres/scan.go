package postgres

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
	"github.com/plasmawatch/watcher-backend/pkg/safe"
)

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var (
		txhash  []byte
		txbytes []byte
		blknum  int64
		txindex int32
		sentAt  time.Time
	)
	if err := row.Scan(&txhash, &txbytes, &blknum, &txindex, &sentAt); err != nil {
		return model.Transaction{}, err
	}

	num, err := safe.Uint64(blknum)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("convert blknum: %w", err)
	}
	index, err := safe.Uint32(txindex)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("convert txindex: %w", err)
	}

	return model.Transaction{
		Txhash:  common.BytesToHash(txhash),
		Txbytes: txbytes,
		Blknum:  num,
		Txindex: index,
		SentAt:  sentAt,
	}, nil
}

func collectTransactions(rows pgx.Rows) ([]model.Transaction, error) {
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func scanOutput(row pgx.Row) (model.Output, error) {
	var (
		creating []byte
		oindex   int32
		owner    []byte
		currency []byte
		amount   int64
		spending []byte
	)
	if err := row.Scan(&creating, &oindex, &owner, &currency, &amount, &spending); err != nil {
		return model.Output{}, err
	}

	index, err := safe.Uint32(oindex)
	if err != nil {
		return model.Output{}, fmt.Errorf("convert oindex: %w", err)
	}
	value, err := safe.Uint64(amount)
	if err != nil {
		return model.Output{}, fmt.Errorf("convert amount: %w", err)
	}

	output := model.Output{
		CreatingTxhash: common.BytesToHash(creating),
		Oindex:         index,
		Owner:          common.BytesToAddress(owner),
		Currency:       common.BytesToAddress(currency),
		Amount:         value,
	}
	if spending != nil {
		hash := common.BytesToHash(spending)
		output.SpendingTxhash = &hash
	}
	return output, nil
}

func collectOutputs(rows pgx.Rows) ([]model.Output, error) {
	defer rows.Close()

	var outputs []model.Output
	for rows.Next() {
		output, err := scanOutput(rows)
		if err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		outputs = append(outputs, output)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return outputs, nil
}

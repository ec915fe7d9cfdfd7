package ledger

import (
	"time"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

// deriveRows flattens a mined block into the rows the repository stores.
// Transaction indexes follow the in-block order. Outputs owned by the zero
// address are padding and produce no row. Spend markers keep the transaction
// and input order of the block so intra-block spends resolve against rows
// stored earlier in the same unit.
func deriveRows(block model.MinedBlock, sentAt time.Time) model.BlockRows {
	rows := model.BlockRows{
		Block: model.Block{
			Blknum:    block.Blknum,
			Hash:      block.Hash,
			Timestamp: block.Timestamp,
			EthHeight: block.EthHeight,
		},
	}

	for txindex, tx := range block.Transactions {
		rows.Transactions = append(rows.Transactions, model.Transaction{
			Txhash:  tx.Txhash,
			Txbytes: tx.Txbytes,
			Blknum:  block.Blknum,
			Txindex: uint32(txindex),
			SentAt:  sentAt,
		})

		for oindex, output := range tx.Outputs {
			if !model.IsAccountAddress(output.Owner) {
				continue
			}
			rows.Outputs = append(rows.Outputs, model.Output{
				CreatingTxhash: tx.Txhash,
				Oindex:         uint32(oindex),
				Owner:          output.Owner,
				Currency:       output.Currency,
				Amount:         output.Amount,
			})
		}

		for _, input := range tx.Inputs {
			if input.IsZero() {
				continue
			}
			rows.Spends = append(rows.Spends, model.Spend{
				Input:          input,
				SpendingTxhash: tx.Txhash,
			})
		}
	}

	return rows
}

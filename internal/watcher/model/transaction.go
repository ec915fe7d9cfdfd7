package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// MaxInputs is the input slot count of the child-chain transaction format.
	MaxInputs = 2
	// MaxOutputs is the output slot count of the child-chain transaction format.
	MaxOutputs = 2
)

// Position identifies an output on the child chain by the block number and
// index of its creating transaction plus the output index.
type Position struct {
	Blknum  uint64
	Txindex uint32
	Oindex  uint32
}

// IsZero reports whether the position is the empty sentinel marking an unused
// input slot.
func (p Position) IsZero() bool {
	return p == Position{}
}

// TxOutput is one output slot of a recovered transaction. A zero Owner marks
// an unused slot.
type TxOutput struct {
	Owner    common.Address
	Currency common.Address
	Amount   uint64
}

// RecoveredTransaction is a child-chain transaction with the spender address
// of each used input slot already recovered from its signature.
type RecoveredTransaction struct {
	Txhash   common.Hash
	Txbytes  []byte
	Inputs   [MaxInputs]Position
	Spenders [MaxInputs]common.Address
	Outputs  [MaxOutputs]TxOutput
}

// Transaction is a transaction row persisted to the ledger.
type Transaction struct {
	Txhash  common.Hash
	Txbytes []byte
	Blknum  uint64
	Txindex uint32
	SentAt  time.Time
}

// Output is an output row persisted to the ledger. SpendingTxhash stays nil
// until the output is spent.
type Output struct {
	CreatingTxhash common.Hash
	Oindex         uint32
	Owner          common.Address
	Currency       common.Address
	Amount         uint64
	SpendingTxhash *common.Hash
}

// UtxoChallenge is the view used to challenge an exit from a spent output: the
// spending transaction restricted to the challenged output as its only input,
// plus every output the transaction created.
type UtxoChallenge struct {
	Transaction Transaction
	Input       Output
	Outputs     []Output
}

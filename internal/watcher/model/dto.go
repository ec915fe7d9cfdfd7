package model

import "github.com/ethereum/go-ethereum/common"

// Spend marks the output at Input as consumed by the transaction with
// SpendingTxhash.
type Spend struct {
	Input          Position
	SpendingTxhash common.Hash
}

// BlockRows groups the rows derived from one mined block for atomic
// insertion: the block row, its transactions and created outputs in mined
// order, and the spend markers to apply once the outputs exist.
type BlockRows struct {
	Block        Block
	Transactions []Transaction
	Outputs      []Output
	Spends       []Spend
}

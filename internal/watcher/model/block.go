// Package model defines domain models for the child-chain watcher ledger.
package model

import "github.com/ethereum/go-ethereum/common"

// MinedBlock is a finalized child-chain block delivered by the chain watcher,
// carrying its transactions in mined order.
type MinedBlock struct {
	Blknum       uint64
	Hash         common.Hash
	Timestamp    uint64
	EthHeight    uint64
	Transactions []RecoveredTransaction
}

// Block is a block row persisted to the ledger.
type Block struct {
	Blknum    uint64
	Hash      common.Hash
	Timestamp uint64
	EthHeight uint64
}

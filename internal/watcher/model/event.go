package model

import "github.com/ethereum/go-ethereum/common"

// NotificationKind enumerates the notification variants derived by the
// watcher.
type NotificationKind string

const (
	// KindAddressSpent signals that an address spent an input in a transaction.
	KindAddressSpent NotificationKind = "address_spent"
	// KindAddressReceived signals that an address received a transaction output.
	KindAddressReceived NotificationKind = "address_received"
	// KindBlockFinalized signals that a child-chain block was finalized.
	KindBlockFinalized NotificationKind = "block_finalized"
)

// Notification is one derived event. Tx is set for address notifications,
// Blknum and BlockHash for finalization notifications.
type Notification struct {
	Kind      NotificationKind
	Tx        *RecoveredTransaction
	Blknum    uint64
	BlockHash common.Hash
}

// Publication pairs a notification with its delivery topic.
type Publication struct {
	Topic        string
	Notification Notification
}

// Trigger carries exactly one cause for notification derivation: a recovered
// transaction or a finalized block.
type Trigger struct {
	Transaction *RecoveredTransaction
	Block       *MinedBlock
}

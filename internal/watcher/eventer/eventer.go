// Package eventer derives delivery-ready notifications from ledger triggers.
package eventer

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

// TopicBlockFinalized is the delivery topic for block finalization
// notifications.
const TopicBlockFinalized = "block_finalized"

// SpentTopic returns the delivery topic for transactions spending from addr.
func SpentTopic(addr common.Address) string {
	return "transactions/spent/" + hexutil.Encode(addr.Bytes())
}

// ReceivedTopic returns the delivery topic for transactions paying to addr.
func ReceivedTopic(addr common.Address) string {
	return "transactions/received/" + hexutil.Encode(addr.Bytes())
}

// Eventer derives notifications from triggers. It holds no state and is safe
// for concurrent use.
type Eventer struct{}

// New constructs an Eventer.
func New() *Eventer {
	return &Eventer{}
}

type dedupKey struct {
	kind  model.NotificationKind
	topic string
	hash  common.Hash
}

// Derive flat-maps triggers, in input order, into topic-addressed
// notifications. A transaction trigger yields one AddressSpent notification
// per distinct spender and one AddressReceived notification per distinct
// output owner, spenders first; a block trigger yields one BlockFinalized
// notification. Duplicates are dropped across the whole call, keyed on kind,
// topic and the referenced transaction or block hash.
func (e *Eventer) Derive(triggers []model.Trigger) ([]model.Publication, error) {
	seen := make(map[dedupKey]struct{})
	var pubs []model.Publication

	add := func(topic string, n model.Notification, hash common.Hash) {
		key := dedupKey{kind: n.Kind, topic: topic, hash: hash}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		pubs = append(pubs, model.Publication{Topic: topic, Notification: n})
	}

	for i, trigger := range triggers {
		switch {
		case trigger.Transaction != nil && trigger.Block == nil:
			tx := trigger.Transaction
			for _, spender := range tx.Spenders {
				if !model.IsAccountAddress(spender) {
					continue
				}
				add(SpentTopic(spender), model.Notification{Kind: model.KindAddressSpent, Tx: tx}, tx.Txhash)
			}
			for _, out := range tx.Outputs {
				if !model.IsAccountAddress(out.Owner) {
					continue
				}
				add(ReceivedTopic(out.Owner), model.Notification{Kind: model.KindAddressReceived, Tx: tx}, tx.Txhash)
			}
		case trigger.Block != nil && trigger.Transaction == nil:
			add(TopicBlockFinalized, model.Notification{
				Kind:      model.KindBlockFinalized,
				Blknum:    trigger.Block.Blknum,
				BlockHash: trigger.Block.Hash,
			}, trigger.Block.Hash)
		default:
			return nil, fmt.Errorf("trigger %d: exactly one of transaction or block must be set", i)
		}
	}

	return pubs, nil
}

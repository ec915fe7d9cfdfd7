package postgres

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"

	"github.com/plasmawatch/watcher-backend/internal/watcher/model"
)

func (s *RepositorySuite) TestInsertBlockRows() {
	tx1 := common.HexToHash("0x01")
	tx2 := common.HexToHash("0x02")
	rows := newLedgerBlock(1000,
		[]model.Transaction{
			newLedgerTransaction(tx1, 1000, 0),
			newLedgerTransaction(tx2, 1000, 1),
		},
		[]model.Output{
			newLedgerOutput(tx1, 0, ledgerAlice, 10),
			newLedgerOutput(tx1, 1, ledgerAlice, 5),
			newLedgerOutput(tx2, 0, ledgerBob, 7),
		},
		nil,
	)

	s.metrics.EXPECT().Observe("insert_block_rows", gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertBlockRows(s.testCtx, rows))

	s.Equal(int64(1), s.countRows("blocks"))
	s.Equal(int64(2), s.countRows("transactions"))
	s.Equal(int64(3), s.countRows("outputs"))
}

func (s *RepositorySuite) TestInsertBlockRowsRollsBackWholeBlock() {
	tx1 := common.HexToHash("0x01")
	rows := newLedgerBlock(1000,
		[]model.Transaction{
			newLedgerTransaction(tx1, 1000, 0),
			newLedgerTransaction(common.HexToHash("0x02"), 1000, 1),
			newLedgerTransaction(tx1, 1000, 2),
		},
		[]model.Output{
			newLedgerOutput(tx1, 0, ledgerAlice, 10),
		},
		nil,
	)

	s.metrics.EXPECT().Observe("insert_block_rows", gomock.Not(gomock.Nil()), gomock.Any()).Times(1)

	s.Require().Error(s.repo.InsertBlockRows(s.testCtx, rows))

	s.Equal(int64(0), s.countRows("blocks"))
	s.Equal(int64(0), s.countRows("transactions"))
	s.Equal(int64(0), s.countRows("outputs"))
}

func (s *RepositorySuite) TestInsertBlockRowsMarksIntraBlockSpend() {
	deposit := common.HexToHash("0x01")
	spender := common.HexToHash("0x02")
	rows := newLedgerBlock(1000,
		[]model.Transaction{
			newLedgerTransaction(deposit, 1000, 0),
			newLedgerTransaction(spender, 1000, 1),
		},
		[]model.Output{
			newLedgerOutput(deposit, 0, ledgerAlice, 10),
			newLedgerOutput(spender, 0, ledgerBob, 10),
		},
		[]model.Spend{
			{Input: model.Position{Blknum: 1000, Txindex: 0, Oindex: 0}, SpendingTxhash: spender},
		},
	)

	s.metrics.EXPECT().Observe("insert_block_rows", gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertBlockRows(s.testCtx, rows))

	var spending []byte
	s.Require().NoError(s.repo.db.QueryRow(s.testCtx,
		"SELECT spending_txhash FROM outputs WHERE creating_txhash = $1 AND oindex = $2",
		deposit.Bytes(), int32(0),
	).Scan(&spending))
	s.Equal(spender.Bytes(), spending)
}

func (s *RepositorySuite) TestInsertBlockRowsMarksSpendAcrossBlocks() {
	s.seedLedger()

	var spending []byte
	s.Require().NoError(s.repo.db.QueryRow(s.testCtx,
		"SELECT spending_txhash FROM outputs WHERE creating_txhash = $1 AND oindex = $2",
		depositHash.Bytes(), int32(0),
	).Scan(&spending))
	s.Equal(paymentHash.Bytes(), spending)

	unspent := 0
	s.Require().NoError(s.repo.db.QueryRow(s.testCtx,
		"SELECT count(*) FROM outputs WHERE spending_txhash IS NULL",
	).Scan(&unspent))
	s.Equal(3, unspent)
}

func (s *RepositorySuite) TestInsertBlockRowsRejectsDuplicateBlknum() {
	rows := newLedgerBlock(1000, nil, nil, nil)

	s.metrics.EXPECT().Observe("insert_block_rows", gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("insert_block_rows", gomock.Not(gomock.Nil()), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertBlockRows(s.testCtx, rows))
	s.Require().Error(s.repo.InsertBlockRows(s.testCtx, rows))

	s.Equal(int64(1), s.countRows("blocks"))
}

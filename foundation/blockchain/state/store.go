package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// loadBlock reads the block with its transactions back from storage.
func (s *State) loadBlock(ctx context.Context, id string) (block.Block, error) {
	row, err := s.storage.Get(ctx, storage.TableBlocks, id)
	if err != nil {
		return block.Block{}, err
	}

	return s.readBlock(ctx, row)
}

// readBlock reconstructs a block from its row, joining the generator's
// username, the confirmations and every transaction of the block.
func (s *State) readBlock(ctx context.Context, row storage.Row) (block.Block, error) {
	row = row.Merge(nil)

	if dlg, exists := s.ledger.DelegateByPublicKey(row["b_generatorPublicKey"]); exists {
		row["m_username"] = dlg.Username
	}

	blk, err := s.blocks.DBRead(row)
	if err != nil {
		return block.Block{}, err
	}
	if blk == nil {
		return block.Block{}, fault.NotFound("block", "")
	}

	if latest := s.RetrieveLatestBlock(); latest.Height >= blk.Height {
		blk.Confirmations = latest.Height - blk.Height + 1
	}

	trsRows, err := s.storage.List(ctx, storage.TableTransactions)
	if err != nil {
		return block.Block{}, fmt.Errorf("list transactions: %w", err)
	}

	var trss []*transaction.Transaction
	for _, trsRow := range trsRows {
		if trsRow["t_blockId"] != blk.ID {
			continue
		}

		trs, err := s.readTransaction(ctx, trsRow)
		if err != nil {
			return block.Block{}, err
		}
		trss = append(trss, trs)
	}

	transaction.Sort(trss)
	blk.Transactions = trss

	return *blk, nil
}

// readTransaction joins the trs row with the row of its asset table.
func (s *State) readTransaction(ctx context.Context, row storage.Row) (*transaction.Transaction, error) {
	t, err := strconv.ParseUint(row["t_type"], 10, 8)
	if err != nil {
		return nil, fault.Encoding("t_type", err)
	}

	if table := s.trs.AssetTable(transaction.Type(t)); table != "" {
		assetRow, err := s.storage.Get(ctx, table, row["t_id"])
		switch {
		case err == nil:
			row = row.Merge(assetRow)
		case !fault.IsNotFound(err):
			return nil, err
		}
	}

	trs, err := s.trs.DBRead(row)
	if err != nil {
		return nil, err
	}
	if trs == nil {
		return nil, fault.NotFound("transaction", row["t_id"])
	}

	return trs, nil
}

// blockRecords maps the block and its transactions to the records that
// persist them.
func (s *State) blockRecords(blk block.Block) ([]storage.Record, error) {
	records := []storage.Record{s.blocks.DBSave(blk)}

	for _, trs := range blk.Transactions {
		recs, err := s.trs.DBSave(trs)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	return records, nil
}

// deleteBlock removes the rows of the block and its transactions.
func (s *State) deleteBlock(ctx context.Context, blk block.Block) error {
	ids := make(map[string][]string)
	for _, trs := range blk.Transactions {
		ids[storage.TableTransactions] = append(ids[storage.TableTransactions], trs.ID)
		if table := s.trs.AssetTable(trs.Type); table != "" {
			ids[table] = append(ids[table], trs.ID)
		}
	}

	for table, keys := range ids {
		if err := s.storage.Delete(ctx, table, keys...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	return s.storage.Delete(ctx, storage.TableBlocks, blk.ID)
}

// loadRegistry rebuilds the registered dapps and the withdrawn transaction
// ids from the rows of the stored dapp and outtransfer transactions.
func (s *State) loadRegistry(ctx context.Context) error {
	rows, err := s.storage.List(ctx, storage.TableDapps)
	if err != nil {
		return fmt.Errorf("list dapps: %w", err)
	}

	dapps := make([]accounts.Dapp, 0, len(rows))
	for _, row := range rows {
		trsRow, err := s.storage.Get(ctx, storage.TableTransactions, row["dapp_transactionId"])
		if err != nil {
			return fmt.Errorf("read dapp transaction: %w", err)
		}

		trs, err := s.readTransaction(ctx, trsRow)
		if err != nil {
			return fmt.Errorf("read dapp transaction: %w", err)
		}

		dapp, err := transaction.Registration(trs)
		if err != nil {
			return fmt.Errorf("read dapp: %w", err)
		}
		dapps = append(dapps, dapp)
	}

	rows, err = s.storage.List(ctx, storage.TableOutTransfers)
	if err != nil {
		return fmt.Errorf("list outtransfers: %w", err)
	}

	withdrawn := make([]string, 0, len(rows))
	for _, row := range rows {
		withdrawn = append(withdrawn, row["ot_outTransactionId"])
	}

	s.ledger.RestoreRegistry(dapps, withdrawn)
	s.evHandler("state: loadRegistry: dapps[%d] outtransfers[%d]", len(dapps), len(withdrawn))

	return nil
}

// saveAccounts writes the committed accounts through to mem_accounts.
func (s *State) saveAccounts(ctx context.Context, accts []accounts.Account) error {
	if len(accts) == 0 {
		return nil
	}

	records := make([]storage.Record, len(accts))
	for i, acct := range accts {
		records[i] = acct.Record()
	}

	return s.storage.Save(ctx, records...)
}

package state

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/storage"
	"github.com/ddknet/node/foundation/blockchain/transaction"
)

// Limits for listing blocks.
const (
	MaxBlocksLimit = 100
	defaultOrderBy = "height:desc"
)

// blockSortFields lists the columns blocks can be ordered by.
var blockSortFields = map[string]bool{
	"id":                   true,
	"timestamp":            true,
	"height":               true,
	"previousBlock":        true,
	"totalAmount":          true,
	"totalFee":             true,
	"reward":               true,
	"numberOfTransactions": true,
	"generatorPublicKey":   true,
}

// BlockFilter represents the set of filters for listing blocks. Zero
// values do not filter.
type BlockFilter struct {
	GeneratorPublicKey string
	Height             uint64
	PreviousBlock      string
	TotalAmount        *uint64
	TotalFee           *uint64
	Reward             *uint64
	OrderBy            string
	Limit              int
	Offset             int
}

// =============================================================================

// QueryAccount returns a copy of the account from the ledger.
func (s *State) QueryAccount(address string) (accounts.Account, error) {
	acct, exists := s.ledger.Account(address)
	if !exists {
		return accounts.Account{}, fault.NotFound("account", address)
	}

	return acct, nil
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryMempool returns a copy of the unconfirmed transactions in block
// order.
func (s *State) QueryMempool() []*transaction.Transaction {
	return s.mempool.Copy()
}

// QueryUnconfirmed returns the unconfirmed transaction with the id.
func (s *State) QueryUnconfirmed(id string) (*transaction.Transaction, error) {
	return s.mempool.Get(id)
}

// QueryBlock returns the block with the specified id.
func (s *State) QueryBlock(ctx context.Context, id string) (block.Block, error) {
	return s.loadBlock(ctx, id)
}

// QueryBlocks returns the blocks matching the filter and the number of
// blocks that matched before the limit and offset were applied.
func (s *State) QueryBlocks(ctx context.Context, filter BlockFilter) ([]block.Block, int, error) {
	field, desc, err := parseOrderBy(filter.OrderBy)
	if err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	switch {
	case limit == 0:
		limit = MaxBlocksLimit
	case limit < 0:
		limit = -limit
	}
	if limit > MaxBlocksLimit {
		return nil, 0, fault.Validationf("invalid limit, maximum is %d", MaxBlocksLimit)
	}

	if filter.Offset < 0 {
		return nil, 0, fault.Validation("invalid offset, must not be negative")
	}

	rows, err := s.storage.List(ctx, storage.TableBlocks)
	if err != nil {
		return nil, 0, fmt.Errorf("list blocks: %w", err)
	}

	matched := make([]storage.Row, 0, len(rows))
	for _, row := range rows {
		if filter.matches(row) {
			matched = append(matched, row)
		}
	}

	column := storage.Prefix(storage.TableBlocks) + field
	storage.SortRows(matched, column)
	if desc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	count := len(matched)
	if filter.Offset >= count {
		return []block.Block{}, count, nil
	}
	matched = matched[filter.Offset:min(count, filter.Offset+limit)]

	blks := make([]block.Block, len(matched))
	for i, row := range matched {
		if blks[i], err = s.readBlock(ctx, row); err != nil {
			return nil, 0, err
		}
	}

	return blks, count, nil
}

// =============================================================================

// parseOrderBy splits a field:asc|desc order into its parts. The field
// must be one of the sortable block columns.
func parseOrderBy(orderBy string) (string, bool, error) {
	if orderBy == "" {
		orderBy = defaultOrderBy
	}

	field, method, _ := strings.Cut(orderBy, ":")
	if !blockSortFields[field] {
		return "", false, fault.Validationf("invalid sort field %q", field)
	}

	return field, method == "desc", nil
}

func (f BlockFilter) matches(row storage.Row) bool {
	if f.GeneratorPublicKey != "" && row["b_generatorPublicKey"] != f.GeneratorPublicKey {
		return false
	}
	if f.Height != 0 && row["b_height"] != strconv.FormatUint(f.Height, 10) {
		return false
	}
	if f.PreviousBlock != "" && row["b_previousBlock"] != f.PreviousBlock {
		return false
	}

	uints := []struct {
		v      *uint64
		column string
	}{
		{f.TotalAmount, "b_totalAmount"},
		{f.TotalFee, "b_totalFee"},
		{f.Reward, "b_reward"},
	}
	for _, u := range uints {
		if u.v != nil && row[u.column] != strconv.FormatUint(*u.v, 10) {
			return false
		}
	}

	return true
}

package blockgrp

import (
	"net/http"
	"strconv"

	"github.com/ddknet/node/foundation/blockchain/block"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/ddknet/node/foundation/web"
)

type blockInfo struct {
	ID                   string                     `json:"id"`
	Version              int32                      `json:"version"`
	Timestamp            int32                      `json:"timestamp"`
	Height               uint64                     `json:"height"`
	PreviousBlock        string                     `json:"previousBlock,omitempty"`
	NumberOfTransactions int32                      `json:"numberOfTransactions"`
	TotalAmount          uint64                     `json:"totalAmount"`
	TotalFee             uint64                     `json:"totalFee"`
	Reward               uint64                     `json:"reward"`
	TotalForged          string                     `json:"totalForged"`
	PayloadLength        int32                      `json:"payloadLength"`
	PayloadHash          string                     `json:"payloadHash"`
	GeneratorPublicKey   string                     `json:"generatorPublicKey"`
	GeneratorID          string                     `json:"generatorId"`
	Username             string                     `json:"username,omitempty"`
	BlockSignature       string                     `json:"blockSignature"`
	Confirmations        uint64                     `json:"confirmations"`
	Transactions         []*transaction.Transaction `json:"transactions"`
}

func toBlock(blk block.Block) blockInfo {
	trs := blk.Transactions
	if trs == nil {
		trs = []*transaction.Transaction{}
	}

	return blockInfo{
		ID:                   blk.ID,
		Version:              blk.Version,
		Timestamp:            blk.Timestamp,
		Height:               blk.Height,
		PreviousBlock:        blk.PreviousBlock,
		NumberOfTransactions: blk.NumberOfTransactions,
		TotalAmount:          blk.TotalAmount,
		TotalFee:             blk.TotalFee,
		Reward:               blk.Reward,
		TotalForged:          blk.TotalForged,
		PayloadLength:        blk.PayloadLength,
		PayloadHash:          blk.PayloadHash,
		GeneratorPublicKey:   blk.GeneratorPublicKey,
		GeneratorID:          blk.GeneratorID,
		Username:             blk.Username,
		BlockSignature:       blk.BlockSignature,
		Confirmations:        blk.Confirmations,
		Transactions:         trs,
	}
}

func toBlocks(blks []block.Block) []blockInfo {
	out := make([]blockInfo, len(blks))
	for i, blk := range blks {
		out[i] = toBlock(blk)
	}
	return out
}

// =============================================================================

func parseFilter(r *http.Request) (state.BlockFilter, error) {
	filter := state.BlockFilter{
		GeneratorPublicKey: web.Query(r, "generatorPublicKey"),
		PreviousBlock:      web.Query(r, "previousBlock"),
		OrderBy:            web.Query(r, "orderBy"),
	}

	var err error
	if filter.Height, err = parseUint(r, "height"); err != nil {
		return state.BlockFilter{}, err
	}
	if filter.TotalAmount, err = parseOptUint(r, "totalAmount"); err != nil {
		return state.BlockFilter{}, err
	}
	if filter.TotalFee, err = parseOptUint(r, "totalFee"); err != nil {
		return state.BlockFilter{}, err
	}
	if filter.Reward, err = parseOptUint(r, "reward"); err != nil {
		return state.BlockFilter{}, err
	}
	if filter.Limit, err = parseInt(r, "limit"); err != nil {
		return state.BlockFilter{}, err
	}
	if filter.Offset, err = parseInt(r, "offset"); err != nil {
		return state.BlockFilter{}, err
	}

	return filter, nil
}

func parseUint(r *http.Request, key string) (uint64, error) {
	v := web.Query(r, key)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fault.Validationf("invalid %s: %q", key, v)
	}
	return n, nil
}

func parseOptUint(r *http.Request, key string) (*uint64, error) {
	if web.Query(r, key) == "" {
		return nil, nil
	}

	n, err := parseUint(r, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseInt(r *http.Request, key string) (int, error) {
	v := web.Query(r, key)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fault.Validationf("invalid %s: %q", key, v)
	}
	return n, nil
}

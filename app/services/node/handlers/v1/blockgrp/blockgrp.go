// Package blockgrp maintains the group of handlers for block access.
package blockgrp

import (
	"context"
	"net/http"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of block endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// QueryByID returns the block with the id provided in the query string.
func (h Handlers) QueryByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Query(r, "id")
	if id == "" {
		return fault.Validation("missing required property: id")
	}

	blk, err := h.State.QueryBlock(ctx, id)
	if err != nil {
		return err
	}

	resp := struct {
		Success bool      `json:"success"`
		Block   blockInfo `json:"block"`
	}{
		Success: true,
		Block:   toBlock(blk),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Query returns the list of blocks matching the query string filters.
func (h Handlers) Query(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	filter, err := parseFilter(r)
	if err != nil {
		return err
	}

	blks, count, err := h.State.QueryBlocks(ctx, filter)
	if err != nil {
		return err
	}

	resp := struct {
		Success bool        `json:"success"`
		Blocks  []blockInfo `json:"blocks"`
		Count   int         `json:"count"`
	}{
		Success: true,
		Blocks:  toBlocks(blks),
		Count:   count,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Height returns the height of the latest block.
func (h Handlers) Height(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool   `json:"success"`
		Height  uint64 `json:"height"`
	}{
		Success: true,
		Height:  h.State.RetrieveLatestBlock().Height,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Fee returns the fee charged for a send transaction.
func (h Handlers) Fee(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool   `json:"success"`
		Fee     uint64 `json:"fee"`
	}{
		Success: true,
		Fee:     h.State.RetrieveStatus().Fee,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Fees returns the fee charged for every transaction type.
func (h Handlers) Fees(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool `json:"success"`
		Fees    any  `json:"fees"`
	}{
		Success: true,
		Fees:    h.State.RetrieveGenesis().Fees,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Epoch returns the time the chain counts timestamps from.
func (h Handlers) Epoch(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool   `json:"success"`
		Epoch   string `json:"epoch"`
	}{
		Success: true,
		Epoch:   h.State.RetrieveStatus().Epoch,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Milestone returns the reward milestone reached at the current height.
func (h Handlers) Milestone(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success   bool `json:"success"`
		Milestone int  `json:"milestone"`
	}{
		Success:   true,
		Milestone: h.State.RetrieveStatus().Milestone,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Reward returns the reward paid for the next block.
func (h Handlers) Reward(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool   `json:"success"`
		Reward  uint64 `json:"reward"`
	}{
		Success: true,
		Reward:  h.State.RetrieveStatus().Reward,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Supply returns the total supply at the current height.
func (h Handlers) Supply(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool   `json:"success"`
		Supply  string `json:"supply"`
	}{
		Success: true,
		Supply:  h.State.RetrieveStatus().Supply,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns all the chain parameters at the current height.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Success bool `json:"success"`
		state.Status
	}{
		Success: true,
		Status:  h.State.RetrieveStatus(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

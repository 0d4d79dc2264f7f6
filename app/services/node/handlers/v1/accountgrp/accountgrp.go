// Package accountgrp maintains the group of handlers for account access.
package accountgrp

import (
	"context"
	"net/http"

	"github.com/ddknet/node/foundation/blockchain/accounts"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/keystore"
	"github.com/ddknet/node/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of account endpoints.
type Handlers struct {
	Log      *zap.SugaredLogger
	State    *state.State
	KeyStore *keystore.KeyStore
}

// Balance returns the confirmed and unconfirmed balance of an account.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct, err := h.account(r)
	if err != nil {
		return err
	}

	resp := struct {
		Success            bool   `json:"success"`
		Balance            uint64 `json:"balance"`
		UnconfirmedBalance uint64 `json:"unconfirmedBalance"`
	}{
		Success:            true,
		Balance:            acct.Balance,
		UnconfirmedBalance: acct.UBalance,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Query returns the account information.
func (h Handlers) Query(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct, err := h.account(r)
	if err != nil {
		return err
	}

	resp := struct {
		Success bool             `json:"success"`
		Account accounts.Account `json:"account"`
		Name    string           `json:"name,omitempty"`
	}{
		Success: true,
		Account: acct,
	}
	if h.KeyStore != nil {
		resp.Name = h.KeyStore.Lookup(acct.Address)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

func (h Handlers) account(r *http.Request) (accounts.Account, error) {
	address := web.Query(r, "address")
	if address == "" {
		return accounts.Account{}, fault.Validation("missing required property: address")
	}

	return h.State.QueryAccount(address)
}

// Package trangrp maintains the group of handlers for transaction access.
package trangrp

import (
	"context"
	"net/http"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/blockchain/transaction"
	"github.com/ddknet/node/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of transaction endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Submit adds a signed transaction to the mempool.
func (h Handlers) Submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitRequest
	if err := web.Decode(r, &req); err != nil {
		return fault.Validationf("unable to decode payload: %s", err)
	}
	if req.Transaction == nil {
		return fault.Validation("missing required property: transaction")
	}
	trs := req.Transaction

	h.Log.Infow("submit tran", "traceid", v.TraceID, "id", trs.ID, "type", trs.Type, "sender", trs.SenderPublicKey, "recipient", trs.RecipientID, "amount", trs.Amount, "fee", trs.Fee)
	if err := h.State.SubmitTransaction(ctx, trs); err != nil {
		return err
	}

	resp := struct {
		Success       bool   `json:"success"`
		TransactionID string `json:"transactionId"`
	}{
		Success:       true,
		TransactionID: trs.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Unconfirmed returns the transactions waiting in the mempool. The list
// can be narrowed to a sender or a recipient.
func (h Handlers) Unconfirmed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	senderPublicKey := web.Query(r, "senderPublicKey")
	address := web.Query(r, "address")

	trss := h.State.QueryMempool()

	out := make([]unconfirmed, 0, len(trss))
	for _, trs := range trss {
		if senderPublicKey != "" && trs.SenderPublicKey != senderPublicKey {
			continue
		}
		if address != "" && trs.SenderID != address && trs.RecipientID != address {
			continue
		}
		out = append(out, toUnconfirmed(trs))
	}

	resp := struct {
		Success      bool          `json:"success"`
		Transactions []unconfirmed `json:"transactions"`
		Count        int           `json:"count"`
	}{
		Success:      true,
		Transactions: out,
		Count:        len(out),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// UnconfirmedByID returns the transaction in the mempool with the id
// provided in the query string.
func (h Handlers) UnconfirmedByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Query(r, "id")
	if id == "" {
		return fault.Validation("missing required property: id")
	}

	trs, err := h.State.QueryUnconfirmed(id)
	if err != nil {
		return err
	}

	resp := struct {
		Success     bool        `json:"success"`
		Transaction unconfirmed `json:"transaction"`
	}{
		Success:     true,
		Transaction: toUnconfirmed(trs),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

type submitRequest struct {
	Transaction *transaction.Transaction `json:"transaction"`
}

type unconfirmed struct {
	*transaction.Transaction
	Status string `json:"status"`
}

func toUnconfirmed(trs *transaction.Transaction) unconfirmed {
	return unconfirmed{
		Transaction: trs,
		Status:      trs.Status.String(),
	}
}

// Package v1 contains the full set of handler functions and routes
// supported by the web api.
package v1

import (
	"net/http"

	"github.com/ddknet/node/app/services/node/handlers/v1/accountgrp"
	"github.com/ddknet/node/app/services/node/handlers/v1/blockgrp"
	"github.com/ddknet/node/app/services/node/handlers/v1/eventgrp"
	"github.com/ddknet/node/app/services/node/handlers/v1/trangrp"
	"github.com/ddknet/node/foundation/blockchain/state"
	"github.com/ddknet/node/foundation/events"
	"github.com/ddknet/node/foundation/keystore"
	"github.com/ddknet/node/foundation/web"
	"go.uber.org/zap"
)

const group = "api"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log      *zap.SugaredLogger
	State    *state.State
	KeyStore *keystore.KeyStore
	Evts     *events.Events
}

// Routes binds all the api routes.
func Routes(app *web.App, cfg Config) {
	blk := blockgrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, group, "/blocks", blk.Query)
	app.Handle(http.MethodGet, group, "/blocks/get", blk.QueryByID)
	app.Handle(http.MethodGet, group, "/blocks/getHeight", blk.Height)
	app.Handle(http.MethodGet, group, "/blocks/getFee", blk.Fee)
	app.Handle(http.MethodGet, group, "/blocks/getFees", blk.Fees)
	app.Handle(http.MethodGet, group, "/blocks/getEpoch", blk.Epoch)
	app.Handle(http.MethodGet, group, "/blocks/getMilestone", blk.Milestone)
	app.Handle(http.MethodGet, group, "/blocks/getReward", blk.Reward)
	app.Handle(http.MethodGet, group, "/blocks/getSupply", blk.Supply)
	app.Handle(http.MethodGet, group, "/blocks/getStatus", blk.Status)

	trn := trangrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPut, group, "/transactions", trn.Submit)
	app.Handle(http.MethodGet, group, "/transactions/unconfirmed", trn.Unconfirmed)
	app.Handle(http.MethodGet, group, "/transactions/unconfirmed/get", trn.UnconfirmedByID)

	act := accountgrp.Handlers{
		Log:      cfg.Log,
		State:    cfg.State,
		KeyStore: cfg.KeyStore,
	}

	app.Handle(http.MethodGet, group, "/accounts", act.Query)
	app.Handle(http.MethodGet, group, "/accounts/getBalance", act.Balance)

	evt := eventgrp.Handlers{
		Log:  cfg.Log,
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, group, "/events", evt.Events)
}

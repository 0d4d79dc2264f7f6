// Package eventgrp maintains the group of handlers for streaming node events.
package eventgrp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ddknet/node/foundation/events"
	"github.com/ddknet/node/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of event endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain. The
	// topic query value narrows the stream, ex. ?topic=block,undo.
	ch := h.Evts.Acquire(v.TraceID, topicPrefixes(web.Query(r, "topic"))...)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting to receive events and send them over the websocket.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// topicPrefixes converts a comma separated list of topics into the event
// prefixes the node emits for them.
func topicPrefixes(topics string) []string {
	if topics == "" {
		return nil
	}

	var prefixes []string
	for _, topic := range strings.Split(topics, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			prefixes = append(prefixes, "viewer: "+topic)
		}
	}

	return prefixes
}

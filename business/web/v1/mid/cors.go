package mid

import (
	"context"
	"net/http"

	"github.com/ddknet/node/foundation/web"
)

// Cors sets the response headers needed for Cross-Origin Resource Sharing.
// An origin of "*" allows every origin. Otherwise the request origin is
// echoed back only when it is in the allowed set.
func Cors(origins ...string) web.Middleware {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Set the CORS headers to the response.
			switch origin := r.Header.Get("Origin"); {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Accept, Content-Type, Content-Length, Accept-Encoding")

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}

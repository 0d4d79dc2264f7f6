package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ddknet/node/business/web/errs"
	"github.com/ddknet/node/business/web/v1/mid"
	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ddknet/node/foundation/web"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCors(t *testing.T) {
	tt := []struct {
		name    string
		origins []string
		origin  string
		exp     string
	}{
		{"all", []string{"*"}, "https://explorer.ddk.io", "*"},
		{"allowed", []string{"https://explorer.ddk.io"}, "https://explorer.ddk.io", "https://explorer.ddk.io"},
		{"refused", []string{"https://explorer.ddk.io"}, "https://evil.example", ""},
	}

	t.Log("Given the need to restrict cross origin requests.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen the origin is %s.", testID, tst.name)
			{
				app := web.NewApp(make(chan os.Signal, 1), mid.Cors(tst.origins...))
				app.Handle(http.MethodGet, "", "/ping", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
					return web.Respond(ctx, w, nil, http.StatusNoContent)
				})

				r := httptest.NewRequest(http.MethodGet, "/ping", nil)
				r.Header.Set("Origin", tst.origin)
				w := httptest.NewRecorder()
				app.ServeHTTP(w, r)

				if got := w.Header().Get("Access-Control-Allow-Origin"); got != tst.exp {
					t.Fatalf("\t%s\tTest %d:\tShould allow origin %q: got %q", failed, testID, tst.exp, got)
				}
				t.Logf("\t%s\tTest %d:\tShould allow origin %q.", success, testID, tst.exp)
			}
		}
	}
}

func TestMiddleware(t *testing.T) {
	type table struct {
		name    string
		handler web.Handler
		status  int
	}

	tt := []table{
		{
			name: "ok",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return web.Respond(ctx, w, map[string]string{"id": web.Param(r, "id")}, http.StatusOK)
			},
			status: http.StatusOK,
		},
		{
			name: "verification",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return fault.Verification("account does not have enough DDK")
			},
			status: http.StatusBadRequest,
		},
		{
			name: "notfound",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return fault.NotFound("block", web.Param(r, "id"))
			},
			status: http.StatusNotFound,
		},
		{
			name: "panic",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				panic(errors.New("boom"))
			},
			status: http.StatusInternalServerError,
		},
	}

	t.Log("Given the need to run handlers through the middleware chain.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the handler returns %s.", testID, tst.name)
				{
					app := web.NewApp(make(chan os.Signal, 1), mid.Logger(zap.NewNop().Sugar()), mid.Errors(zap.NewNop().Sugar()), mid.Metrics(), mid.Cors("*"), mid.Panics())
					app.Handle(http.MethodGet, "v1", "/item/:id", tst.handler)

					r := httptest.NewRequest(http.MethodGet, "/v1/item/42", nil)
					w := httptest.NewRecorder()
					app.ServeHTTP(w, r)

					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould get status %d: got %d", failed, testID, tst.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)

					if w.Header().Get("Access-Control-Allow-Origin") != "*" {
						t.Fatalf("\t%s\tTest %d:\tShould set the CORS headers.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould set the CORS headers.", success, testID)

					if tst.status != http.StatusOK {
						var resp errs.Response
						if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
							t.Fatalf("\t%s\tTest %d:\tShould get an error response: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould get an error response.", success, testID)
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}

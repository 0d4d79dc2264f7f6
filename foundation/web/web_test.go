package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ddknet/node/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestApp(t *testing.T) {
	t.Log("Given the need to route requests through the app.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a grouped route with middleware.", testID)
		{
			var order []string
			mw := func(name string) web.Middleware {
				return func(handler web.Handler) web.Handler {
					return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
						order = append(order, name)
						return handler(ctx, w, r)
					}
				}
			}

			app := web.NewApp(make(chan os.Signal, 1), mw("app1"), mw("app2"))

			var traceID string
			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				traceID = web.GetTraceID(ctx)
				data := map[string]string{"id": web.Param(r, "id"), "q": web.Query(r, "q")}
				return web.Respond(ctx, w, data, http.StatusOK)
			}
			app.Handle(http.MethodGet, "api", "/blocks/:id", h, mw("route"))

			r := httptest.NewRequest(http.MethodGet, "/api/blocks/7?q=x", nil)
			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould get a 200 status: got %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould get a 200 status.", success, testID)

			if got := strings.TrimSpace(w.Body.String()); got != `{"id":"7","q":"x"}` {
				t.Fatalf("\t%s\tTest %d:\tShould read the path and query values: got %s", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould read the path and query values.", success, testID)

			if strings.Join(order, ",") != "app1,app2,route" {
				t.Fatalf("\t%s\tTest %d:\tShould run the middleware in order: got %v", failed, testID, order)
			}
			t.Logf("\t%s\tTest %d:\tShould run the middleware in order.", success, testID)

			if len(traceID) != 36 {
				t.Fatalf("\t%s\tTest %d:\tShould assign a trace id: got %q", failed, testID, traceID)
			}
			t.Logf("\t%s\tTest %d:\tShould assign a trace id.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a handler returns a shutdown error.", testID)
		{
			shutdown := make(chan os.Signal, 1)
			app := web.NewApp(shutdown)

			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return web.NewShutdownError("integrity issue")
			}
			app.Handle(http.MethodGet, "", "/fail", h)

			app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

			select {
			case <-shutdown:
				t.Logf("\t%s\tTest %d:\tShould signal the service to shut down.", success, testID)
			case <-time.After(time.Second):
				t.Fatalf("\t%s\tTest %d:\tShould signal the service to shut down.", failed, testID)
			}
		}

		testID++
		t.Logf("\tTest %d:\tWhen there are no values in the context.", testID)
		{
			if _, err := web.GetValues(context.Background()); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to get the values.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to get the values.", success, testID)

			if web.GetTraceID(context.Background()) != "00000000-0000-0000-0000-000000000000" {
				t.Fatalf("\t%s\tTest %d:\tShould get the zero trace id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get the zero trace id.", success, testID)
		}
	}
}

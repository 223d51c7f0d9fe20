package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/foundation/validate"
	"github.com/ardanlabs/powledger/foundation/web"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Handle(t *testing.T) {
	t.Log("Given the need to route requests through the app.")
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

		app := web.NewApp(make(chan os.Signal, 1), mw("app"))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return err
			}
			resp := map[string]string{"account": web.Param(r, "account"), "traceid": v.TraceID}
			return web.Respond(ctx, w, resp, http.StatusOK)
		}
		app.Handle(http.MethodGet, "v1", "/balances/list/:account", h, mw("route"))

		r := httptest.NewRequest(http.MethodGet, "/v1/balances/list/bill", nil)
		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a status code of 200, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a status code of 200.", success)

		var got map[string]string
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the response: %s", failed, err)
		}
		if got["account"] != "bill" || got["traceid"] == "" {
			t.Fatalf("\t%s\tShould get the param and a trace id: %v", failed, got)
		}
		t.Logf("\t%s\tShould get the param and a trace id.", success)

		if len(order) != 2 || order[0] != "app" || order[1] != "route" {
			t.Fatalf("\t%s\tShould run the app middleware first: %v", failed, order)
		}
		t.Logf("\t%s\tShould run the app middleware first.", success)
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to signal a shutdown on an integrity error.")
	{
		shutdown := make(chan os.Signal, 1)
		app := web.NewApp(shutdown)

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return web.NewShutdownError("integrity issue")
		}
		app.Handle(http.MethodGet, "", "/boom", h)

		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

		select {
		case <-shutdown:
			t.Logf("\t%s\tShould signal a shutdown.", success)
		default:
			t.Fatalf("\t%s\tShould signal a shutdown.", failed)
		}

		if !web.IsShutdown(errors.Join(errors.New("other"), web.NewShutdownError("x"))) {
			t.Fatalf("\t%s\tShould find a wrapped shutdown error.", failed)
		}
		t.Logf("\t%s\tShould find a wrapped shutdown error.", success)
	}
}

func Test_Decode(t *testing.T) {
	t.Log("Given the need to decode and validate a request body.")
	{
		var req struct {
			Value int64 `json:"value" validate:"gt=0"`
		}

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":0}`))
		err := web.Decode(r, &req)
		if !validate.IsFieldErrors(err) {
			t.Fatalf("\t%s\tShould get field errors: %v", failed, err)
		}
		t.Logf("\t%s\tShould get field errors.", success)

		r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":1,"tip":2}`))
		if err := web.Decode(r, &req); err == nil {
			t.Fatalf("\t%s\tShould refuse unknown fields.", failed)
		}
		t.Logf("\t%s\tShould refuse unknown fields.", success)

		r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":7}`))
		if err := web.Decode(r, &req); err != nil || req.Value != 7 {
			t.Fatalf("\t%s\tShould decode a good payload: %v", failed, err)
		}
		t.Logf("\t%s\tShould decode a good payload.", success)
	}
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"opinio/internal/app"
	"opinio/internal/effect"
	"opinio/internal/event"
	"opinio/internal/view"
	"opinio/pkg/types"
)

type mockService struct {
	status      types.StatusResponse
	ready       bool
	version     uint64
	views       map[string]any
	dispatchErr error
	dispatched  []types.DispatchRequest
	gotCtx      context.Context
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Version() uint64              { return m.version }

func (m *mockService) ViewNames() []string {
	out := make([]string, 0, len(m.views))
	for k := range m.views {
		out = append(out, k)
	}
	return out
}

func (m *mockService) View(name string) (any, error) {
	v, ok := m.views[name]
	if !ok {
		return nil, &view.UnknownViewError{Name: name}
	}
	return v, nil
}

func (m *mockService) DispatchRaw(ctx context.Context, kind string, payload json.RawMessage) error {
	m.gotCtx = ctx
	m.dispatched = append(m.dispatched, types.DispatchRequest{Kind: kind, Payload: payload})
	if m.dispatchErr != nil {
		return m.dispatchErr
	}
	m.version++
	return nil
}

func (m *mockService) MatchRoute(fragment string) types.RouteMatch {
	return types.RouteMatch{ID: "entry-detail", Params: map[string]string{"id": strings.TrimPrefix(fragment, "#/entries/")}}
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{Version: 7, Status: types.Status{Type: types.StatusInfo, Message: "running"}}}
	w := do(t, NewMux(svc), http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Version != 7 || body.Status.Message != "running" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestViews(t *testing.T) {
	svc := &mockService{version: 3, views: map[string]any{"voteLock": true, "json": `{"voteLock": true}`}}
	h := NewMux(svc)

	w := do(t, h, http.MethodGet, "/views", "")
	var list types.ViewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Views) != 2 {
		t.Fatalf("views: %s err=%v", w.Body.String(), err)
	}

	w = do(t, h, http.MethodGet, "/views/voteLock", "")
	var one types.ViewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &one); err != nil {
		t.Fatalf("json: %v", err)
	}
	if one.Name != "voteLock" || one.Version != 3 || one.Value != true {
		t.Fatalf("view = %+v", one)
	}

	w = do(t, h, http.MethodGet, "/views/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown view status=%d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/state", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"voteLock": true}` {
		t.Fatalf("state: %d %q", w.Code, w.Body.String())
	}
}

func TestDispatch(t *testing.T) {
	svc := &mockService{}
	w := do(t, NewMux(svc), http.MethodPost, "/dispatch", `{"kind":"CREATE_VOTE","payload":{"id":"e1"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp types.DispatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Kind != "CREATE_VOTE" || resp.Version != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(svc.dispatched) != 1 || !bytes.Equal(svc.dispatched[0].Payload, []byte(`{"id":"e1"}`)) {
		t.Fatalf("dispatched = %+v", svc.dispatched)
	}
}

func TestDispatchValidation(t *testing.T) {
	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(`{"kind":"X"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("missing content type: %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/dispatch", `{"kind":`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/dispatch", `{"kind":"  "}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing kind: %d", w.Code)
	}
}

func TestDispatchBodyLimit(t *testing.T) {
	SetMaxBodyBytes(16)
	t.Cleanup(func() { SetMaxBodyBytes(0) })
	w := do(t, NewMux(&mockService{}), http.MethodPost, "/dispatch", `{"kind":"SET_INPUT","payload":{"input":"aaaaaaaaaaaaaaaa"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestDispatchErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown kind", &event.UnknownKindError{Kind: "NOPE"}, http.StatusNotFound},
		{"payload", &app.PayloadError{Kind: "SET_INPUT", Err: errors.New("bad")}, http.StatusBadRequest},
		{"closed", app.ErrClosed, http.StatusServiceUnavailable},
		{"handler", &event.HandlerError{Kind: "GET_ENTRY", Err: errors.New("GET_ENTRY: missing id")}, http.StatusUnprocessableEntity},
		{"http error", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"unknown effect", &event.HandlerError{Kind: "X", Err: &effect.UnknownEffectError{Effect: "Y"}}, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := &mockService{dispatchErr: c.err}
			w := do(t, NewMux(svc), http.MethodPost, "/dispatch", `{"kind":"K"}`)
			if w.Code != c.want {
				t.Fatalf("status=%d want %d", w.Code, c.want)
			}
			var body types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body.Code != c.want || body.Error != c.err.Error() {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestJoinContextsCancelsOnEitherParent(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	req, cancelReq := context.WithCancel(context.Background())
	defer cancelReq()
	ctx, cancel := joinContexts(base, req)
	defer cancel()
	select {
	case <-ctx.Done():
		t.Fatalf("joined context done before either parent")
	default:
	}
	cancelBase()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("joined context not canceled with base")
	}
}

func TestDispatchTimeoutReachesService(t *testing.T) {
	SetDispatchTimeout(time.Minute)
	t.Cleanup(func() { SetDispatchTimeout(0) })
	svc := &mockService{}
	do(t, NewMux(svc), http.MethodPost, "/dispatch", `{"kind":"K"}`)
	if svc.gotCtx == nil {
		t.Fatalf("dispatch not called")
	}
	if _, ok := svc.gotCtx.Deadline(); !ok {
		t.Fatalf("dispatch context has no deadline")
	}
}

func TestRoutesMatch(t *testing.T) {
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/routes/match?fragment=%23/entries/e1", "")
	var m types.RouteMatch
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if m.ID != "entry-detail" || m.Params["id"] != "e1" {
		t.Fatalf("match = %+v", m)
	}
}

func TestHealthAndReady(t *testing.T) {
	if w := do(t, NewMux(&mockService{}), http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz=%d", w.Code)
	}
	if w := do(t, NewMux(&mockService{ready: true}), http.MethodGet, "/readyz", ""); w.Code != http.StatusOK {
		t.Fatalf("readyz=%d", w.Code)
	}
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "closed") {
		t.Fatalf("readyz not ready: %d %q", w.Code, w.Body.String())
	}
}

func TestCORSIsOptIn(t *testing.T) {
	preflight := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/status", nil)
		req.Header.Set("Origin", "http://ui.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}
	if w := preflight(NewMux(&mockService{})); w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("CORS header without opt-in")
	}
	SetCORSOptions(true, []string{"http://ui.example"}, nil, nil)
	t.Cleanup(func() { SetCORSOptions(false, nil, nil, nil) })
	if w := preflight(NewMux(&mockService{})); w.Header().Get("Access-Control-Allow-Origin") != "http://ui.example" {
		t.Fatalf("allow-origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

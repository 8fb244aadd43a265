package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opinio/internal/app"
	"opinio/internal/event"
	"opinio/internal/httpapi"
	"opinio/pkg/types"
)

// newStack starts a fake backend serving backend, an App talking to it, and
// the HTTP control API in front of the App.
func newStack(t *testing.T, backend http.Handler) (*httptest.Server, *app.App, *event.MemoryPublisher) {
	t.Helper()
	be := httptest.NewServer(backend)
	t.Cleanup(be.Close)
	pub := event.NewMemoryPublisher()
	a, err := app.New(app.Options{
		APIHost:          be.URL,
		StatusClearDelay: time.Hour,
		GithubClientID:   "client-1",
		Publisher:        pub,
	})
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	t.Cleanup(a.Close)
	srv := httptest.NewServer(httpapi.NewMux(a))
	t.Cleanup(srv.Close)
	return srv, a, pub
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func dispatch(t *testing.T, base, kind string, payload any) (*http.Response, []byte) {
	t.Helper()
	raw, _ := json.Marshal(payload)
	body, _ := json.Marshal(types.DispatchRequest{Kind: kind, Payload: raw})
	resp, err := http.Post(base+"/dispatch", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /dispatch: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

// viewValue fetches /views/{name} and decodes its value into v.
func viewValue(t *testing.T, base, name string, v any) {
	t.Helper()
	resp, b := httpGet(t, base+"/views/"+name)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("view %s: status %d: %s", name, resp.StatusCode, b)
	}
	var vr struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &vr); err != nil {
		t.Fatalf("view %s: %v", name, err)
	}
	if err := json.Unmarshal(vr.Value, v); err != nil {
		t.Fatalf("view %s value: %v", name, err)
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

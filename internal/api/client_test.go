package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"opinio/pkg/types"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(Options{BaseURL: ts.URL + "/", Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/user":
			http.Error(w, "nope", http.StatusUnauthorized)
		default:
			http.Error(w, "bad", http.StatusBadRequest)
		}
	}))
	_, err := c.User(testCtx(t))
	if err == nil || err.Error() != "Unauthorized" || !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	_, err = c.Entry(testCtx(t), "e1")
	if err == nil || err.Error() != "Bad Request" {
		t.Fatalf("err = %v", err)
	}
}

func TestEnvelopeExtractsIDAndData(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/entries/e1" || r.Method != http.MethodGet {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"e1","data":{"id":"e1","name":"hello","opinions":[{"github_handle":"alice"}]},"extra":1}`)
	}))
	env, err := c.Entry(testCtx(t), "e1")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if env.ID != "e1" {
		t.Fatalf("id = %q", env.ID)
	}
	m, ok := env.Data.(map[string]any)
	if !ok || m["name"] != "hello" {
		t.Fatalf("data = %#v", env.Data)
	}
	var e types.Entry
	if err := env.Decode(&e); err != nil || len(e.Opinions) != 1 || e.Opinions[0].GithubHandle != "alice" {
		t.Fatalf("decode = %+v, %v", e, err)
	}
}

func TestVoteCallsUseHandleAndVoteID(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Method == http.MethodPost {
			var v types.Vote
			if err := json.NewDecoder(r.Body).Decode(&v); err != nil || v.OpinionGithubHandle != "alice" {
				t.Errorf("body = %+v, %v", v, err)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
		}
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	msg := types.VoteMessage{ID: "e1", Data: types.Vote{ID: "v1", OpinionGithubHandle: "alice"}}
	if _, err := c.CreateVote(testCtx(t), msg); err != nil {
		t.Fatalf("CreateVote: %v", err)
	}
	if _, err := c.DeleteVote(testCtx(t), msg); err != nil {
		t.Fatalf("DeleteVote: %v", err)
	}
	want := []string{"POST /api/v1/entries/e1/alice/vote", "DELETE /api/v1/entries/e1/alice/vote/v1"}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v", seen)
	}
}

func TestQueryParametersAreEncoded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/api/v1/search/entry":
			if q.Get("id") != "a b" || q.Get("page") != "2" {
				t.Errorf("search query = %v", q)
			}
		case "/api/v1/wiki":
			if q.Get("language") != "zh" || q.Get("titles") != "你好" {
				t.Errorf("wiki query = %v", q)
			}
		}
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	if _, err := c.SearchEntry(testCtx(t), types.SearchQuery{ID: "a b", Page: 2}); err != nil {
		t.Fatalf("SearchEntry: %v", err)
	}
	if _, err := c.Wiki(testCtx(t), types.WikiQuery{Language: "zh", Titles: "你好"}); err != nil {
		t.Fatalf("Wiki: %v", err)
	}
}

func TestSessionCookieIsSentBack(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			if r.URL.Query().Get("code") != "xyz" {
				t.Errorf("code = %q", r.URL.Query().Get("code"))
			}
			http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "s1", Path: "/"})
			_, _ = io.WriteString(w, `{"data":"ok"}`)
		case "/api/v1/user":
			ck, err := r.Cookie("session_id")
			if err != nil || ck.Value != "s1" {
				http.Error(w, "", http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"data":{"login":"alice"}}`)
		}
	}))
	if _, err := c.Token(testCtx(t), "xyz"); err != nil {
		t.Fatalf("Token: %v", err)
	}
	env, err := c.User(testCtx(t))
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	var u types.User
	if err := env.Decode(&u); err != nil || u.Login != "alice" {
		t.Fatalf("user = %+v, %v", u, err)
	}
}

func TestInvalidJSONFails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":`)
	}))
	if _, err := c.NewNotifications(testCtx(t)); err == nil {
		t.Fatalf("expected error for truncated body")
	}
}

func TestSignInURL(t *testing.T) {
	if SignInURL("", "", "") != "" {
		t.Fatalf("empty client id should give empty URL")
	}
	u := SignInURL("cid", "http://localhost/#/oauth/callback", "st")
	if !strings.HasPrefix(u, "https://github.com/login/oauth/authorize?") || !strings.Contains(u, "client_id=cid") || !strings.Contains(u, "state=st") {
		t.Fatalf("url = %s", u)
	}
}

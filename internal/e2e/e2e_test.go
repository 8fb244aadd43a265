package e2e

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"opinio/internal/event"
	"opinio/internal/router"
	"opinio/pkg/types"
)

func TestBootWithoutSessionRoutesToSignIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no session", http.StatusUnauthorized)
	})
	srv, a, _ := newStack(t, mux)

	if err := a.Boot(context.Background(), "#/faq"); err != nil {
		t.Fatalf("boot: %v", err)
	}
	eventually(t, "sign-in route", func() bool {
		var m router.Match
		viewValue(t, srv.URL, "route", &m)
		return m.ID == router.SignIn
	})
	var st types.Status
	viewValue(t, srv.URL, "status", &st)
	if st.Type != types.StatusError || st.Message != "Unauthorized" {
		t.Fatalf("status = %+v", st)
	}
	var url string
	viewValue(t, srv.URL, "signInURL", &url)
	if !strings.Contains(url, "client_id=client-1") {
		t.Fatalf("sign-in url = %q", url)
	}
}

func TestVoteThroughHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/entries/e1/alice/vote", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{"id": "v-9", "opinion_github_handle": "alice", "github_handle": "bob"})
	})
	srv, _, _ := newStack(t, mux)

	resp, body := dispatch(t, srv.URL, "CREATE_VOTE", types.VoteMessage{ID: "e1", Data: types.Vote{OpinionGithubHandle: "alice"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dispatch: %d %s", resp.StatusCode, body)
	}
	eventually(t, "vote stored", func() bool {
		var votes map[string][]types.Vote
		viewValue(t, srv.URL, "votes", &votes)
		return len(votes["e1"]) == 1 && votes["e1"][0].ID == "v-9"
	})
	var locked bool
	viewValue(t, srv.URL, "voteLock", &locked)
	if locked {
		t.Fatalf("vote lock still held")
	}
	_, b := httpGet(t, srv.URL+"/status")
	if !strings.Contains(string(b), "voted successfully") {
		t.Fatalf("status = %s", b)
	}
}

func TestDispatchErrorsOverHTTP(t *testing.T) {
	srv, _, pub := newStack(t, http.NewServeMux())

	if resp, _ := dispatch(t, srv.URL, "NOT_A_KIND", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown kind: %d", resp.StatusCode)
	}
	if n := pub.Count(event.OccUnknownKind, "NOT_A_KIND"); n != 1 {
		t.Fatalf("unknown kind occurrences = %d", n)
	}
	if resp, b := dispatch(t, srv.URL, "GET_ENTRY", map[string]any{"id": ""}); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("missing id: %d %s", resp.StatusCode, b)
	}
	var st types.Status
	viewValue(t, srv.URL, "status", &st)
	if st.Type != types.StatusError {
		t.Fatalf("status = %+v", st)
	}
}

func TestRouteMatchOverHTTP(t *testing.T) {
	srv, _, _ := newStack(t, http.NewServeMux())
	_, b := httpGet(t, srv.URL+"/routes/match?fragment=%23/search/cats/2")
	if !strings.Contains(string(b), `"id":"search"`) || !strings.Contains(string(b), `"page":"2"`) {
		t.Fatalf("match = %s", b)
	}
}

package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestLogLevelOverrides(t *testing.T) {
	cases := []struct {
		query, header string
		want          LogLevel
	}{
		{"?log=1", "", LevelDebug},
		{"?log=error", "", LevelError},
		{"", "off", LevelOff},
		{"", "DEBUG", LevelDebug},
		{"?log=info", "debug", LevelInfo},
		{"", "", defaultLogLevel},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/dispatch"+c.query, nil)
		if c.header != "" {
			r.Header.Set("X-Log-Level", c.header)
		}
		if got := requestLogLevel(r); got != c.want {
			t.Errorf("query=%q header=%q: got %v want %v", c.query, c.header, got, c.want)
		}
	}
}

func TestDispatchIsLogged(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { zlog = nil })

	req := httptest.NewRequest(http.MethodPost, "/dispatch?log=debug", strings.NewReader(`{"kind":"TOGGLE_NAV"}`))
	req.Header.Set("Content-Type", "application/json")
	NewMux(&mockService{}).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"dispatch start"`, `"dispatch end"`, `"kind":"TOGGLE_NAV"`, `"request_id"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %s: %s", want, out)
		}
	}
}

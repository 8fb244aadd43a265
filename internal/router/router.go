// Package router maps URL fragments ("#/entries/e1") to route ids and params
// and formats them back. Matching is done by a chi mux over the route table.
package router

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route is one entry of the route table. Pattern uses chi syntax.
type Route struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Title   string `json:"title"`
}

// Match is the result of matching a fragment.
type Match struct {
	ID     string            `json:"id"`
	Params map[string]string `json:"params"`
	Title  string            `json:"title,omitempty"`
}

// Router matches fragments against a fixed route table.
type Router struct {
	routes map[string]Route
	order  []string
	def    string
	mux    *chi.Mux
}

type hitKey struct{}

// New builds a Router. defaultID must name a route without parameters.
func New(routes []Route, defaultID string) (*Router, error) {
	r := &Router{routes: make(map[string]Route, len(routes)), def: defaultID, mux: chi.NewRouter()}
	for _, rt := range routes {
		if rt.ID == "" || !strings.HasPrefix(rt.Pattern, "/") {
			return nil, fmt.Errorf("router: invalid route %q (%q)", rt.ID, rt.Pattern)
		}
		if _, dup := r.routes[rt.ID]; dup {
			return nil, fmt.Errorf("router: duplicate route id %q", rt.ID)
		}
		r.routes[rt.ID] = rt
		r.order = append(r.order, rt.ID)
		rt := rt
		r.mux.Get(rt.Pattern, func(w http.ResponseWriter, req *http.Request) {
			m, _ := req.Context().Value(hitKey{}).(*Match)
			if m == nil {
				return
			}
			m.ID = rt.ID
			m.Title = rt.Title
			rctx := chi.RouteContext(req.Context())
			for i, k := range rctx.URLParams.Keys {
				if k == "*" {
					continue
				}
				v := rctx.URLParams.Values[i]
				if un, err := url.PathUnescape(v); err == nil {
					v = un
				}
				m.Params[k] = v
			}
		})
	}
	def, ok := r.routes[defaultID]
	if !ok {
		return nil, fmt.Errorf("router: unknown default route %q", defaultID)
	}
	if strings.Contains(def.Pattern, "{") {
		return nil, fmt.Errorf("router: default route %q must not take parameters", defaultID)
	}
	return r, nil
}

// MustDefault returns a Router over Table.
func MustDefault() *Router {
	r, err := New(Table, DefaultRoute)
	if err != nil {
		panic(err)
	}
	return r
}

// Match resolves a fragment such as "#/search/hello/2?x=1". Query parameters
// are merged into Params; path parameters win on conflict. Unmatched
// fragments resolve to the default route.
func (r *Router) Match(fragment string) Match {
	frag := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	raw, rawQuery, _ := strings.Cut(frag, "?")
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}

	m := Match{Params: map[string]string{}}
	if q, err := url.ParseQuery(rawQuery); err == nil {
		for k, vs := range q {
			if len(vs) > 0 {
				m.Params[k] = vs[0]
			}
		}
	}
	path, err := url.PathUnescape(raw)
	if err != nil {
		path = raw
	}
	req, err := http.NewRequestWithContext(context.WithValue(context.Background(), hitKey{}, &m), http.MethodGet, "/", nil)
	if err == nil {
		req.URL.Path = path
		req.URL.RawPath = raw
		r.mux.ServeHTTP(discard{}, req)
	}
	if m.ID == "" {
		def := r.routes[r.def]
		return Match{ID: def.ID, Title: def.Title, Params: map[string]string{}}
	}
	return m
}

// Format builds the fragment for id. Params named in the pattern are
// substituted; the rest become the query string in key order.
func (r *Router) Format(id string, params map[string]string) (string, error) {
	rt, ok := r.routes[id]
	if !ok {
		return "", fmt.Errorf("router: unknown route %q", id)
	}
	used := map[string]bool{}
	segs := strings.Split(rt.Pattern, "/")
	for i, s := range segs {
		if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
			continue
		}
		name := s[1 : len(s)-1]
		v, ok := params[name]
		if !ok {
			return "", fmt.Errorf("router: route %q needs param %q", id, name)
		}
		segs[i] = url.PathEscape(v)
		used[name] = true
	}
	out := "#" + strings.Join(segs, "/")
	var extra []string
	for k := range params {
		if !used[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		q := url.Values{}
		for _, k := range extra {
			q.Set(k, params[k])
		}
		out += "?" + q.Encode()
	}
	return out, nil
}

// Lookup returns the route registered under id.
func (r *Router) Lookup(id string) (Route, bool) {
	rt, ok := r.routes[id]
	return rt, ok
}

// Routes lists the table in declaration order.
func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.routes[id])
	}
	return out
}

// Default is the id of the fallback route.
func (r *Router) Default() string { return r.def }

type discard struct{}

func (discard) Header() http.Header         { return http.Header{} }
func (discard) Write(b []byte) (int, error) { return len(b), nil }
func (discard) WriteHeader(int)             {}

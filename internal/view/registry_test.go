package view

import (
	"reflect"
	"testing"

	"opinio/internal/state"
)

func TestPathAndDerive(t *testing.T) {
	c := state.New(state.Tree{"voteLock": true, "entries": state.Tree{"e1": state.Tree{"name": "x"}}})
	reg := New(c)
	MustRegister(reg, "voteLock", Path[bool](state.P("voteLock")))
	MustRegister(reg, "entryCount", Derive(state.P("entries"), func(v any) int {
		m, _ := v.(map[string]any)
		return len(m)
	}))

	if v, err := reg.Get("voteLock"); err != nil || v != true {
		t.Fatalf("voteLock = %v, %v", v, err)
	}
	if v, _ := reg.Get("entryCount"); v != 1 {
		t.Fatalf("entryCount = %v", v)
	}
	if got := Read(reg, Path[string](state.P("voteLock"))); got != "" {
		t.Fatalf("mismatched type should give zero value, got %q", got)
	}
}

func TestGetSeesLatestCommittedBatch(t *testing.T) {
	c := state.New(state.Tree{"input": "a"})
	reg := New(c)
	MustRegister(reg, "input", Path[string](state.P("input")))
	if v, _ := reg.Get("input"); v != "a" {
		t.Fatalf("input = %v", v)
	}
	_ = c.Set(state.P("input"), "b")
	if v, _ := reg.Get("input"); v != "b" {
		t.Fatalf("stale cached view: %v", v)
	}
}

func TestCachedValueIsNotShared(t *testing.T) {
	c := state.New(state.Tree{"user": state.Tree{"login": "alice"}})
	reg := New(c)
	MustRegister(reg, "user", Path[map[string]any](state.P("user")))
	v, _ := reg.Get("user")
	v.(map[string]any)["login"] = "mallory"
	again, _ := reg.Get("user")
	if !reflect.DeepEqual(again, map[string]any{"login": "alice"}) {
		t.Fatalf("cache mutated through returned value: %v", again)
	}
}

func TestUnknownAndDuplicate(t *testing.T) {
	reg := New(state.New(nil))
	if _, err := reg.Get("nope"); !IsUnknownView(err) {
		t.Fatalf("expected unknown view, got %v", err)
	}
	if err := Register(reg, "a", Path[any](state.P("a"))); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Register(reg, "a", Path[any](state.P("a"))); err == nil {
		t.Fatalf("expected duplicate error")
	}
	MustRegister(reg, "b", Func(func(r state.Reader) uint64 { return r.Version() }))
	if names := reg.Names(); !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("names = %v", names)
	}
	if all := reg.All(); len(all) != 2 {
		t.Fatalf("all = %v", all)
	}
}

package state

import (
	"errors"
	"reflect"
	"testing"
)

func TestGetMissingPathReturnsEmptyMap(t *testing.T) {
	c := New(Tree{"user": Tree{"login": "alice"}, "input": "x"})
	got, ok := c.Get(P("entries", "e1")).(map[string]any)
	if !ok || len(got) != 0 {
		t.Fatalf("expected empty map default, got %#v", c.Get(P("entries", "e1")))
	}
	// descending through a leaf must not panic
	if _, ok := c.Get(P("input", "deeper")).(map[string]any); !ok {
		t.Fatalf("expected default when walking through a leaf")
	}
	if v := c.Get(P("user", "login")); v != "alice" {
		t.Fatalf("user.login = %v", v)
	}
}

func TestSetCreatesIntermediates(t *testing.T) {
	c := New(Tree{"report": "leaf"})
	if err := c.Set(P("report", "type"), "opinion"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v := c.Get(ParsePath("report.type")); v != "opinion" {
		t.Fatalf("report.type = %v", v)
	}
	if err := c.Set(P("entries", "e1", "name"), "n"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v := c.Get(P("entries", "e1", "name")); v != "n" {
		t.Fatalf("entries.e1.name = %v", v)
	}
}

func TestUpdateAbsentMaterializesEmptySequence(t *testing.T) {
	appendX := func(cur any) any {
		seq, _ := cur.([]any)
		return append(seq, "x")
	}
	a := New(Tree{})
	if err := a.Update(P("votes", "e1"), appendX); err != nil {
		t.Fatalf("update: %v", err)
	}
	b := New(Tree{})
	if err := b.Set(P("votes", "e1"), appendX([]any{})); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Fatalf("update on absent path differs from set(fn(default)): %#v vs %#v", a.Snapshot(), b.Snapshot())
	}
	var seen any
	_ = a.Update(P("missing"), func(cur any) any { seen = cur; return cur })
	if seq, ok := seen.([]any); !ok || len(seq) != 0 {
		t.Fatalf("updater saw %#v, want empty []any", seen)
	}
}

func TestBatchAppliesInOrderAndNotifiesOnce(t *testing.T) {
	c := New(Tree{"log": []any{}})
	var notes []uint64
	cancel := c.Subscribe(func(v uint64) { notes = append(notes, v) })
	defer cancel()

	push := func(s string) Updater {
		return func(cur any) any { return append(cur.([]any), s) }
	}
	err := c.Batch(func(tx *Tx) error {
		tx.Update(P("log"), push("A"))
		// intermediate writes are visible inside the batch only
		if got := c.Get(P("log")).([]any); len(got) != 0 {
			t.Errorf("committed state leaked mid-batch: %v", got)
		}
		tx.Update(P("log"), push("B"))
		tx.Update(P("log"), push("C"))
		return nil
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if got := c.Get(P("log")); !reflect.DeepEqual(got, []any{"A", "B", "C"}) {
		t.Fatalf("log = %v", got)
	}
	if len(notes) != 1 || notes[0] != 1 {
		t.Fatalf("notifications = %v, want [1]", notes)
	}
}

func TestBatchErrorDiscardsWrites(t *testing.T) {
	c := New(Tree{"n": 1})
	calls := 0
	c.Subscribe(func(uint64) { calls++ })
	boom := errors.New("boom")
	err := c.Batch(func(tx *Tx) error {
		tx.Set(P("n"), 2)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if c.Get(P("n")) != 1 || c.Version() != 0 || calls != 0 {
		t.Fatalf("discarded batch leaked: n=%v version=%d calls=%d", c.Get(P("n")), c.Version(), calls)
	}
}

func TestBatchWithoutWritesDoesNotNotify(t *testing.T) {
	c := New(Tree{})
	calls := 0
	c.Subscribe(func(uint64) { calls++ })
	_ = c.Batch(func(tx *Tx) error { _ = tx.Get(P("x")); return nil })
	if calls != 0 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestNotifyWithoutCommitKeepsVersion(t *testing.T) {
	c := New(Tree{})
	var got []uint64
	c.Subscribe(func(v uint64) { got = append(got, v) })
	c.Notify()
	if !reflect.DeepEqual(got, []uint64{0}) || c.Version() != 0 {
		t.Fatalf("notifications = %v version = %d", got, c.Version())
	}
}

func TestPanickingObserverIsSkipped(t *testing.T) {
	c := New(Tree{})
	calls := 0
	c.Subscribe(func(uint64) { panic("boom") })
	c.Subscribe(func(uint64) { calls++ })
	if err := c.Set(P("a"), 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if calls != 1 || c.ObserverPanics() != 1 {
		t.Fatalf("calls=%d panics=%d", calls, c.ObserverPanics())
	}
	if err := c.Set(P("a"), 2); err != nil || c.Get(P("a")) != 2 {
		t.Fatalf("container unusable after observer panic: %v", err)
	}
}

func TestSwapReplacesTreeWithSingleNotification(t *testing.T) {
	c := New(Tree{"a": 1, "b": 2})
	calls := 0
	c.Subscribe(func(uint64) { calls++ })
	if err := c.Swap(Tree{"c": 3}); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !reflect.DeepEqual(c.Snapshot(), Tree{"c": 3}) || calls != 1 {
		t.Fatalf("snapshot=%v calls=%d", c.Snapshot(), calls)
	}
	if err := c.Set(nil, "not a map"); !errors.Is(err, ErrRootNotTree) {
		t.Fatalf("expected ErrRootNotTree, got %v", err)
	}
}

func TestReadsAreCopies(t *testing.T) {
	c := New(Tree{"entries": Tree{"e1": Tree{"name": "n"}}})
	got := c.Get(P("entries")).(map[string]any)
	got["e1"].(map[string]any)["name"] = "mutated"
	if v := c.Get(P("entries", "e1", "name")); v != "n" {
		t.Fatalf("caller mutation leaked into state: %v", v)
	}
}

func TestSequenceIndexPaths(t *testing.T) {
	c := New(Tree{"list": []any{"a", Tree{"k": "v"}}})
	if v := c.Get(P("list", "1", "k")); v != "v" {
		t.Fatalf("list.1.k = %v", v)
	}
	if err := c.Set(P("list", "0"), "z"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v := c.Get(P("list")); !reflect.DeepEqual(v, []any{"z", Tree{"k": "v"}}) {
		t.Fatalf("list = %#v", v)
	}
}

func TestUnsubscribe(t *testing.T) {
	c := New(Tree{})
	calls := 0
	cancel := c.Subscribe(func(uint64) { calls++ })
	_ = c.Set(P("a"), 1)
	cancel()
	_ = c.Set(P("a"), 2)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestParsePath(t *testing.T) {
	if p := ParsePath(""); !p.IsRoot() {
		t.Fatalf("empty path should be root: %v", p)
	}
	if p := ParsePath("newEntry.wikipedia"); !reflect.DeepEqual(p, P("newEntry", "wikipedia")) || p.String() != "newEntry.wikipedia" {
		t.Fatalf("parse = %v", p)
	}
	base := P("a")
	ext := base.Append("b")
	if len(base) != 1 || ext.String() != "a.b" {
		t.Fatalf("append mutated base or wrong result: %v %v", base, ext)
	}
}

func TestAs(t *testing.T) {
	c := New(Tree{"voteLock": true})
	if v, ok := As[bool](c, P("voteLock")); !ok || !v {
		t.Fatalf("As[bool] = %v %v", v, ok)
	}
	if _, ok := As[string](c, P("voteLock")); ok {
		t.Fatalf("As[string] on bool should fail")
	}
}

func TestPinIsStableAcrossCommits(t *testing.T) {
	c := New(Tree{"n": 1})
	r := c.Pin()
	_ = c.Set(P("n"), 2)
	if r.Get(P("n")) != 1 || r.Version() != 0 {
		t.Fatalf("pinned reader moved: n=%v v=%d", r.Get(P("n")), r.Version())
	}
	if c.Get(P("n")) != 2 {
		t.Fatalf("n = %v", c.Get(P("n")))
	}
}

func TestSetCopiesCallerValue(t *testing.T) {
	c := New(Tree{})
	m := map[string]any{"k": "v"}
	_ = c.Set(P("m"), m)
	m["k"] = "changed"
	if v := c.Get(P("m", "k")); v != "v" {
		t.Fatalf("caller map aliased into state: %v", v)
	}
}

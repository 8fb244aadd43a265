package app

import "fmt"

// upsert replaces the element whose key equals item's key, or appends item.
func upsert(seq []any, item any, key func(any) string) []any {
	k := key(item)
	out := make([]any, 0, len(seq)+1)
	replaced := false
	for _, el := range seq {
		if !replaced && k != "" && key(el) == k {
			out = append(out, item)
			replaced = true
			continue
		}
		out = append(out, el)
	}
	if !replaced {
		out = append(out, item)
	}
	return out
}

// merge appends items whose key is not already present.
func merge(seq []any, items []any, key func(any) string) []any {
	seen := make(map[string]bool, len(seq)+len(items))
	out := make([]any, 0, len(seq)+len(items))
	for _, el := range seq {
		seen[key(el)] = true
		out = append(out, el)
	}
	for _, it := range items {
		k := key(it)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

// remove drops every element with the given key.
func remove(seq []any, k string, key func(any) string) []any {
	out := make([]any, 0, len(seq))
	for _, el := range seq {
		if key(el) != k {
			out = append(out, el)
		}
	}
	return out
}

func field(v any, name string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	switch s := m[name].(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func opinionKey(v any) string { return field(v, "github_handle") }

// voteKey is the vote id; votes without one are keyed by opinion and voter.
func voteKey(v any) string {
	if id := field(v, "id"); id != "" {
		return id
	}
	return field(v, "opinion_github_handle") + "/" + field(v, "github_handle")
}

// notificationKey is the notification id; others are keyed by entry and user.
func notificationKey(v any) string {
	if id := field(v, "id"); id != "" {
		return id
	}
	return field(v, "entry_id") + "/" + field(v, "github_handle")
}

// seqOf returns v as a sequence; any other value becomes an empty one.
func seqOf(v any) []any {
	s, _ := v.([]any)
	if s == nil {
		return []any{}
	}
	return s
}

func treeSeq[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, toTree(it))
	}
	return out
}

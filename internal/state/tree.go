package state

import "strconv"

// Tree is the root of the state: nested maps, []any sequences and leaf values.
// Leaf values stored by callers must be treated as immutable; maps and []any
// sequences are deep-copied when read.
type Tree = map[string]any

// lookup walks p from node. ok is false when any segment is missing or when
// the walk has to descend through a leaf.
func lookup(node any, p Path) (any, bool) {
	cur := node
	for _, key := range p {
		switch n := cur.(type) {
		case map[string]any:
			v, ok := n[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			cur = n[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// assign returns a copy of node with v placed at p. Only the containers on the
// path are copied; siblings are shared with the original. Missing or leaf
// intermediates are replaced by new maps.
func assign(node any, p Path, v any) any {
	if len(p) == 0 {
		return v
	}
	key, rest := p[0], p[1:]
	if seq, ok := node.([]any); ok {
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(seq) {
			out := make([]any, len(seq))
			copy(out, seq)
			out[i] = assign(seq[i], rest, v)
			return out
		}
	}
	src, _ := node.(map[string]any)
	out := make(map[string]any, len(src)+1)
	for k, sv := range src {
		out[k] = sv
	}
	out[key] = assign(src[key], rest, v)
	return out
}

// Clone deep-copies maps and []any sequences; other values are returned as is.
func Clone(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, sv := range n {
			out[k] = Clone(sv)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, sv := range n {
			out[i] = Clone(sv)
		}
		return out
	default:
		return v
	}
}

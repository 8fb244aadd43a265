package state

import "strings"

// Path addresses a node in the state tree. An empty Path is the root.
type Path []string

// P builds a Path from keys.
func P(keys ...string) Path { return Path(keys) }

// ParsePath splits a dot-separated path ("newEntry.wikipedia").
// The empty string parses to the root path.
func ParsePath(s string) Path {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// Append returns a new Path extended by keys; p is not modified.
func (p Path) Append(keys ...string) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// IsRoot reports whether p addresses the whole tree.
func (p Path) IsRoot() bool { return len(p) == 0 }

func (p Path) String() string { return strings.Join(p, ".") }

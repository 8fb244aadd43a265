// Package state owns the single mutable application state tree.
//
// The tree is a nested map[string]any addressed by Path. All writes go through
// a Container batch: writes inside a batch are applied in call order against a
// private copy-on-write root and become visible to readers in one step when the
// batch commits, followed by exactly one observer notification. A batch that
// returns an error (or panics) is discarded.
//
//   - path.go: Path construction and parsing.
//   - tree.go: copy-on-write lookup/assignment helpers and deep cloning.
//   - container.go: Container, Tx, observers.
package state

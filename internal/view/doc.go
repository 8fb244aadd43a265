// Package view exposes named, read-only projections of the state tree.
//
// A view is an Accessor: a path into the state plus an optional transform.
// The Registry evaluates views against a pinned snapshot of the container and
// caches each value until the next committed batch.
package view

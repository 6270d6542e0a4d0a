// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the tunebench pipeline:
// rating records, trial records, and per-strategy run results.
package types

// Rating is one user-item interaction from the source dataset. Records are
// immutable once loaded; the preparer partitions them into disjoint
// train/validation/test subsets.
type Rating struct {
	// UserID identifies the user who produced the rating.
	UserID string `json:"user_id" yaml:"user_id"`

	// ItemID identifies the rated item.
	ItemID string `json:"item_id" yaml:"item_id"`

	// Value is the rating value (e.g. 1.0-5.0 for MovieLens-style data).
	Value float64 `json:"rating" yaml:"rating"`

	// Timestamp is the raw timestamp column, empty when the source has none.
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

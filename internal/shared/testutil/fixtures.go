package testutil

import "productapi/internal/catalog"

// SampleRecords returns a small collection that differs from the built-in
// seed, so tests notice when the seed leaks in.
func SampleRecords() []catalog.Record {
	return []catalog.Record{
		{ID: 10, Name: "desk", Price: 300},
		{ID: 11, Name: "chair", Price: 120.5},
		{ID: 12, Name: "lamp", Price: 35},
	}
}

// NewSampleStore returns a store seeded with SampleRecords
func NewSampleStore() *catalog.Store {
	return catalog.NewStore(SampleRecords())
}

// StrPtr returns a pointer to s, for building patches
func StrPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f, for building patches
func FloatPtr(f float64) *float64 { return &f }

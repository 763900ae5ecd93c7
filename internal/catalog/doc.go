// Package catalog holds the in-memory product store and the fixed,
// version-selected product listings.
//
// The Store is an explicitly owned object; construct one with NewStore and
// inject it where needed. Ids arrive as path segments and are parsed with
// ParseID before any lookup, under either the lenient or the strict policy.
package catalog

// Package store provides the bounded, ordered record stores used by a session.
//
// Two backends implement RecordStore:
//   - Memory: a slice of slots owned by the process
//   - SQLite: a private ":memory:" SQLite database on a single connection
//
// Both backends share the same semantics:
//
// # Slots and logical size
//
//   - A store is created with a fixed capacity; every slot starts vacant
//   - The logical size starts equal to capacity and shrinks by one on each delete
//   - Set only accepts indexes in [0, logical size)
//
// # Lookup
//
//   - FindByRoll scans filled slots in position order; the first match wins
//   - Duplicate roll numbers are permitted unless Options.UniqueRolls is set
//
// # Compaction
//
//   - DeleteByRoll clears the matched slot and shifts every later slot left by one
//   - Relative order of untouched records is preserved
//
// Nothing is persisted. The SQLite backend pins one pooled connection so the
// in-memory database lives exactly as long as the store.
package store

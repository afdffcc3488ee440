// Package sqlite stores users and chunk records in a single SQLite file
// (default ~/.docvault/data/docvault.db) through the cgo-free
// modernc.org/sqlite driver.
//
// The schema lives in the migrations package and is brought up to date
// when the store opens. Embeddings are little-endian float32 blobs and
// chunk metadata is JSON. One open connection serialises writers, so
// the duplicate check in Insert and the counter updates cannot
// interleave.
package sqlite

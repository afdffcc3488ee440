// Package mongodb provides a MongoDB implementation of the record and user stores.
//
// Records live in the "chunk_records" collection with a unique index on
// (owner_id, fingerprint); users live in "users" with a unique index on the
// lowercased email. Per-user counters are updated with $inc so concurrent
// uploads never lose increments.
package mongodb

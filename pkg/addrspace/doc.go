/*
Package addrspace owns the node store and the reference index: the set of
Node values keyed by NodeId, and the bidirectional reference lists carried
inline on each Node.

Storage is backed by go.etcd.io/bbolt, the same engine the teacher's
pkg/storage/boltdb.go uses for cluster state — one bucket of
JSON-marshaled values keyed by id, mutated inside db.Update transactions
and read inside db.View transactions. The difference from the teacher is
where the database file lives: a Store is opened against a private
temp directory created at construction and removed on Close, because
spec §6 requires no persistent state across restarts. bbolt is used here
purely for the ACID guarantee a single db.Update transaction gives for
free — a source node and a target node are read, mutated, and written
back inside one transaction when installing or removing a reference
pair, so a "half-installed reference" (spec invariant 2) can never be
observed by a concurrent View transaction, and a returned error aborts
the transaction with no partial write, which is exactly spec §4.8's
failure semantics for this layer.

	┌──────────────────── ADDRESS SPACE STORE ──────────────────┐
	│                                                             │
	│  bucket "nodes": NodeId.String() -> JSON(model.Node)       │
	│    - Node.References rides along inline, so a reference    │
	│      pair install/remove is a two-key Update transaction   │
	│  bucket "meta": the bucket's own NextSequence() counter    │
	│    - backs the server namespace's monotonic id counter     │
	└─────────────────────────────────────────────────────────┘

Concurrent callers above this package (pkg/server) are expected to hold
their own coordinating lock around a whole service call (spec §5's
"reader-writer protected store" option) since a node-management operation
is usually several Store calls that must all succeed or none must take
effect; this package only guarantees atomicity for the single
insert/remove/reference-pair operation it exposes, not for a caller's
multi-step sequence of them.
*/
package addrspace

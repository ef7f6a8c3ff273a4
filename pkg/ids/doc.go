/*
Package ids defines the namespaced identifiers used throughout the
address space: NodeId and QualifiedName.

A NodeId pairs a namespace index with one of four identifier kinds —
numeric, string, Guid, or opaque (byte string) — mirroring the OPC UA
Part 3 identifier union. Guid identifiers wrap github.com/google/uuid so
parsing, formatting, and generation follow RFC 4122 instead of a
hand-rolled 16-byte array.

NodeId is a plain comparable value for every kind: two NodeIds compare
equal with ==. The Guid payload is a uuid.UUID (a byte array) and the
opaque payload is held as a string, so both compare with == too;
Compare gives the total ordering.
*/
package ids

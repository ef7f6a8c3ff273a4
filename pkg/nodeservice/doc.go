/*
Package nodeservice is the public node-management service: AddNode,
AddReference, DeleteNode, DeleteReference and Browse, with the
validation ordering and failure semantics of spec.md §4.7/§4.8.

Grounded on the teacher's pkg/manager.Manager — a struct holding the
store and its collaborators, exposing one method per cluster operation
in a "validate, then mutate" shape, wrapping causes with
fmt.Errorf("...: %w", err) — generalized here to wrap causes in
pkg/opcuaerr's typed StatusCode instead, since callers across the
(out-of-scope) network boundary need to branch on a fixed status
rather than match error strings.
*/
package nodeservice

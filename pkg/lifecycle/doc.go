/*
Package lifecycle is the constructor/destructor registry: a table of
optional hooks keyed by type NodeId, plus the opaque per-instance
handles those hooks hand back and forth.

Shaped after the teacher's pkg/events.Broker — a sync.RWMutex-guarded
map of registrations, looked up under RLock at the single point each
hook actually fires — generalized from "one channel per subscriber" to
"one constructor/destructor pair per type", since a lifecycle hook here
is invoked synchronously by the instantiator and deleter rather than
delivered asynchronously to many listeners.
*/
package lifecycle

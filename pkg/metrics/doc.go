/*
Package metrics provides Prometheus metrics collection and exposition for the
address-space core.

Node counts, reference counts, and node-management service call outcomes are
updated directly by the packages that drive them (pkg/nodeservice and
pkg/instantiate) rather than through a
polling collector, since the address space lives entirely in memory and has
no separate "actual state" to reconcile against.

# Metric categories

  - Address space: NodesTotal (by NodeClass), ReferencesTotal.
  - Node-management service: ServiceCallsTotal (by operation, status),
    ServiceCallDuration.
  - Instantiator: InstantiationDuration, InstantiationsTotal (by outcome),
    InstantiationRollbacksTotal.
  - Lifecycle: ConstructorInvocationsTotal, DestructorInvocationsTotal.
  - Browse: BrowseResultsReturned.

Handler returns the standard promhttp handler for an embedder to mount
alongside whatever network listener it runs; this package never starts an
HTTP server itself.
*/
package metrics

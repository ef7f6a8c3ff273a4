/*
Package typesys answers the three questions the rest of the core asks
about the type hierarchy: is this node a subtype of that one, what type
is this instance, and what template children does a type contribute to
its instances.

The hierarchy walks follow HasSubtype/HasComponent/HasProperty edges
read straight out of pkg/addrspace, guarded by a visited set the same
way the teacher's pkg/scheduler filters candidates and pkg/reconciler
walks a dependency graph — a plain queue of NodeIds, no graph library,
because a handful of typed-edge loops does not earn a dependency. The
store does not reject a HasSubtype cycle at insertion; the visited sets
are what keep every walk finite.
*/
package typesys

/*
Package instantiate materializes an instance subtree from a type
definition: the root node, then every mandatory template child found by
pkg/typesys, recursively for children that are themselves typed, firing
registered pkg/lifecycle constructors depth-first as each node comes
into existence.

Grounded on the teacher's pkg/manager "build up state, and on any
error unwind what was built" shape (NewManager/Bootstrap), generalized
from standing up one Raft transport to materializing one subtree: a
rollback log of every NodeId created survives for the duration of one
Instantiate call and is unwound in reverse order, destructors fired
symmetrically, the moment any step fails.
*/
package instantiate

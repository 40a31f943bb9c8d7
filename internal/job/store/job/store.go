// Package job persists job records. Implementations signal facts with
// sentinel errors: ErrNotFound for missing jobs, ErrConflict for an invite
// token collision.
package job

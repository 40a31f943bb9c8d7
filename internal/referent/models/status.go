package models

// Status is the referent lifecycle state.
//
// created and sent are collectively "pending": the referent has not decided
// yet. confirmed and declined are terminal, with one exception handled by
// the edit path: a pending referent whose email changes is forced back to
// sent with fresh tokens, which is a sent→sent self-transition, never an
// escape from a terminal state.
type Status string

const (
	StatusCreated   Status = "created"
	StatusSent      Status = "sent"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
)

// allowedTransitions is the single source of truth for lifecycle moves.
// Every mutating operation checks it before touching the record.
var allowedTransitions = map[Status][]Status{
	StatusCreated:   {StatusSent, StatusConfirmed, StatusDeclined},
	StatusSent:      {StatusSent, StatusConfirmed, StatusDeclined},
	StatusConfirmed: {},
	StatusDeclined:  {},
}

// IsValid reports whether s is one of the four lifecycle states.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsPending reports whether the referent has not yet decided.
func (s Status) IsPending() bool {
	return s == StatusCreated || s == StatusSent
}

// IsResolved reports whether the referent has decided.
func (s Status) IsResolved() bool {
	return s == StatusConfirmed || s == StatusDeclined
}

// CanTransitionTo reports whether the transition table permits s → target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

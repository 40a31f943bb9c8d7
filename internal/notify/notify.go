// Package notify is the outbound notification boundary: email payload
// contracts, the Mailer port, and the fire-and-forget dispatcher that keeps
// delivery failures out of lifecycle results.
package notify

//go:generate mockgen -destination=mocks/mailer_mock.go -package=mocks ndoors/internal/notify Mailer

import "context"

// ReferentInvite asks a referent to confirm they're happy to be contacted.
type ReferentInvite struct {
	ReferentEmail string
	ReferentName  string
	ApplicantName string
	JobTitle      string
	CompanyName   string
	ConfirmURL    string
}

// RecruiterNotification tells the recruiter a referent confirmed.
type RecruiterNotification struct {
	RecruiterEmail string
	RecruiterName  string
	ReferentName   string
	ReferentEmail  string
	ApplicantName  string
	JobTitle       string
	DashboardURL   string
}

// ReferenceQuestions carries the recruiter's questions to a confirmed
// referent. Replies go straight to the recruiter via Reply-To.
type ReferenceQuestions struct {
	ReferentEmail  string
	ReferentName   string
	ApplicantName  string
	JobTitle       string
	CompanyName    string
	Questions      []string
	RecruiterEmail string
	RecruiterName  string
}

// Mailer delivers the three email shapes the workflow produces. Delivery is
// external; implementations must not retry internally.
type Mailer interface {
	SendReferentInvite(ctx context.Context, p ReferentInvite) error
	SendRecruiterNotification(ctx context.Context, p RecruiterNotification) error
	SendReferenceQuestions(ctx context.Context, p ReferenceQuestions) error
}

package notify

import (
	"fmt"
	"html"
	"strings"
)

// Email bodies are deliberately plain: short paragraphs and one action link.
// Styling lives with the email API templates, not here.

func inviteHTML(p ReferentInvite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(p.ReferentName))
	fmt.Fprintf(&b, "<p><strong>%s</strong> is applying for the role of <strong>%s</strong> at <strong>%s</strong> and has listed you as a reference.</p>",
		html.EscapeString(p.ApplicantName), html.EscapeString(p.JobTitle), html.EscapeString(p.CompanyName))
	fmt.Fprintf(&b, "<p>By clicking below you confirm you're happy to be contacted by the recruiter about this specific role. Your details will only be shared with the hiring team at %s for this position.</p>",
		html.EscapeString(p.CompanyName))
	fmt.Fprintf(&b, `<p><a href="%s">Confirm I'm happy to be a reference</a></p>`, p.ConfirmURL)
	b.WriteString("<p>You can also decline via the link above if you'd prefer not to be contacted.</p>")
	return b.String()
}

func recruiterNotificationHTML(p RecruiterNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(p.RecruiterName))
	fmt.Fprintf(&b, "<p><strong>%s</strong> has confirmed they're happy to be contacted as a reference for <strong>%s</strong> (%s).</p>",
		html.EscapeString(p.ReferentName), html.EscapeString(p.ApplicantName), html.EscapeString(p.JobTitle))
	fmt.Fprintf(&b, `<p>You can now reach them at: <a href="mailto:%s">%s</a></p>`,
		html.EscapeString(p.ReferentEmail), html.EscapeString(p.ReferentEmail))
	if p.DashboardURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">View dashboard</a></p>`, p.DashboardURL)
	}
	return b.String()
}

func questionsHTML(p ReferenceQuestions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(p.ReferentName))
	fmt.Fprintf(&b, "<p>I'm %s from <strong>%s</strong>. You've confirmed that you're happy to be a reference for <strong>%s</strong> who is applying for <strong>%s</strong>.</p>",
		html.EscapeString(p.RecruiterName), html.EscapeString(p.CompanyName),
		html.EscapeString(p.ApplicantName), html.EscapeString(p.JobTitle))
	b.WriteString("<p>I'd love to hear your thoughts on a few questions. Please just reply to this email.</p>")
	b.WriteString("<div>")
	for i, q := range p.Questions {
		fmt.Fprintf(&b, "<p><strong>%d.</strong> %s</p>", i+1, html.EscapeString(q))
	}
	b.WriteString("</div>")
	b.WriteString("<p>Thank you for taking the time, it really helps us make the right decision.</p>")
	return b.String()
}

package models

import "fmt"

// StockQuestions returns the five standard reference-check questions
// templated on the applicant's name. Recruiters may send any subset plus
// custom questions; SendQuestions only requires a non-empty list.
func StockQuestions(applicantName string) []string {
	return []string{
		fmt.Sprintf("How long did you work with %s and in what capacity?", applicantName),
		fmt.Sprintf("What were %s's key strengths?", applicantName),
		fmt.Sprintf("Are there areas where %s could grow or improve?", applicantName),
		fmt.Sprintf("How did %s handle pressure or challenging situations?", applicantName),
		fmt.Sprintf("Would you recommend %s for this type of role?", applicantName),
	}
}

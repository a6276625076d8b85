// Package types defines the shared data structures passed between pipeline stages.
package types

import "strings"

// NotAvailable is the sentinel value used for job record fields the
// extraction model could not determine.
const NotAvailable = "N/A"

// JobRecord is a structured job listing extracted from a web page.
// Scalar fields that could not be determined hold NotAvailable.
type JobRecord struct {
	JobTitle   string   `json:"jobTitle"`
	Company    string   `json:"company"`
	Location   string   `json:"location"`
	Salary     string   `json:"salary"`
	JobType    string   `json:"job_type"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	Summary    string   `json:"summary"`
	URL        string   `json:"url"`
}

// Normalize fills empty scalar fields with the NotAvailable sentinel and
// trims whitespace from all values. Skills entries that are empty after
// trimming are dropped.
func (j *JobRecord) Normalize() {
	j.JobTitle = orNA(j.JobTitle)
	j.Company = orNA(j.Company)
	j.Location = orNA(j.Location)
	j.Salary = orNA(j.Salary)
	j.JobType = orNA(j.JobType)
	j.Experience = orNA(j.Experience)
	j.Summary = orNA(j.Summary)

	skills := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	j.Skills = skills
}

func orNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}

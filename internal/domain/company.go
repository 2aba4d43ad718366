package domain

import (
	"strconv"
	"strings"
)

// CompanyRecord is a hand-curated historical sponsor.
type CompanyRecord struct {
	Name         string
	Category     string
	CareerURL    string
	FilingBucket string // e.g. "Filed 4000+ H1B petitions in recent years"
	TypicalRoles []string
	Verified     string
}

// Employer is one row of visa-filing statistics.
type Employer struct {
	Company      string `json:"company"`
	H1BCount     string `json:"h1b_count"`
	AvgSalary    string `json:"avg_salary"`
	JobSearchURL string `json:"job_search_url,omitempty"`
}

// SalaryUSD strips everything but digits from the display salary.
// Unparseable values report 0.
func (e Employer) SalaryUSD() int {
	n, _ := digitsOnly(e.AvgSalary)
	return n
}

// FilingCount parses the display count ("4,970"). ok is false for
// anything that is not a plain number after removing commas.
func (e Employer) FilingCount() (int, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(e.H1BCount, ",", ""))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func digitsOnly(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Sponsorship is the tri-state outcome of the sponsorship classifier.
type Sponsorship uint8

const (
	SponsorUnknown Sponsorship = iota
	SponsorYes
	SponsorNo
)

func (s Sponsorship) String() string {
	switch s {
	case SponsorYes:
		return "True"
	case SponsorNo:
		return "False"
	default:
		return ""
	}
}

// Label is the human-facing name used in reports and the HTTP API filter.
func (s Sponsorship) Label() string {
	switch s {
	case SponsorYes:
		return "yes"
	case SponsorNo:
		return "no"
	default:
		return "unknown"
	}
}

// ParseSponsorship accepts the CSV form ("True"/"False"/"") as well as the
// API labels ("yes"/"no"/"unknown").
func ParseSponsorship(s string) (Sponsorship, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return SponsorYes, nil
	case "false", "no", "0":
		return SponsorNo, nil
	case "", "unknown", "none", "null":
		return SponsorUnknown, nil
	}
	return SponsorUnknown, fmt.Errorf("invalid sponsorship value %q", s)
}

func (s Sponsorship) MarshalJSON() ([]byte, error) {
	switch s {
	case SponsorYes:
		return []byte("true"), nil
	case SponsorNo:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (s *Sponsorship) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*s = SponsorYes
	case "false":
		*s = SponsorNo
	case "null":
		*s = SponsorUnknown
	default:
		return fmt.Errorf("sponsors_h1b: unexpected %s", b)
	}
	return nil
}

type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceUnknown Confidence = "unknown"
)

// JobRecord is one posting (or synthesized lead) as exported to CSV/JSON.
type JobRecord struct {
	Title         string      `json:"title"`
	Company       string      `json:"company"`
	Location      string      `json:"location"`
	Description   string      `json:"description"`
	URL           string      `json:"url"`
	Source        string      `json:"source"`
	PostingDate   string      `json:"posting_date"`
	ScrapedDate   string      `json:"scraped_date"`
	SponsorsH1B   Sponsorship `json:"sponsors_h1b"`
	Confidence    Confidence  `json:"confidence"`
	KeywordsFound []string    `json:"keywords_found"`

	// Only set on records synthesized from visa-filing data.
	H1BApplications string `json:"h1b_applications,omitempty"`
	AvgH1BSalary    string `json:"avg_h1b_salary,omitempty"`
}

// CSVFields returns the record as ordered name/value pairs. The column set
// is fixed so mixed exports keep the visa-data columns of later rows.
func (j JobRecord) CSVFields() []Field {
	kw, _ := json.Marshal(nonNil(j.KeywordsFound))
	return []Field{
		{"title", j.Title},
		{"company", j.Company},
		{"location", j.Location},
		{"description", j.Description},
		{"url", j.URL},
		{"source", j.Source},
		{"posting_date", j.PostingDate},
		{"scraped_date", j.ScrapedDate},
		{"sponsors_h1b", j.SponsorsH1B.String()},
		{"confidence", string(j.Confidence)},
		{"keywords_found", string(kw)},
		{"h1b_applications", j.H1BApplications},
		{"avg_h1b_salary", j.AvgH1BSalary},
	}
}

// SetCSVField is the inverse of CSVFields for a single column.
func (j *JobRecord) SetCSVField(name, value string) error {
	switch name {
	case "title":
		j.Title = value
	case "company":
		j.Company = value
	case "location":
		j.Location = value
	case "description":
		j.Description = value
	case "url":
		j.URL = value
	case "source":
		j.Source = value
	case "posting_date":
		j.PostingDate = value
	case "scraped_date":
		j.ScrapedDate = value
	case "sponsors_h1b":
		s, err := ParseSponsorship(value)
		if err != nil {
			return err
		}
		j.SponsorsH1B = s
	case "confidence":
		j.Confidence = Confidence(value)
	case "keywords_found":
		j.KeywordsFound = []string{}
		if strings.TrimSpace(value) == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(value), &j.KeywordsFound); err != nil {
			return fmt.Errorf("keywords_found: %w", err)
		}
	case "h1b_applications":
		j.H1BApplications = value
	case "avg_h1b_salary":
		j.AvgH1BSalary = value
	default:
		return fmt.Errorf("unknown column %q", name)
	}
	return nil
}

// Field is one named CSV cell.
type Field struct {
	Name  string
	Value string
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

package filter

import (
	"strings"

	"h1bhunt-engine/internal/domain"
)

var (
	DefaultNegative = []string{
		"no sponsorship",
		"no visa sponsorship",
		"must be authorized to work",
		"us citizen",
		"permanent resident",
		"green card required",
		"no h1b",
		"no visa support",
		"authorized to work without sponsorship",
	}

	DefaultPositive = []string{
		"h1b",
		"h-1b",
		"visa sponsorship",
		"work authorization",
		"sponsor visa",
		"eligible to work",
		"visa sponsor",
		"immigration sponsor",
		"work visa",
		"employment authorization",
		"opt",
		"cpt",
		"f1",
		"green card",
		"visa support",
		"immigration support",
	}

	DefaultStrong = []string{"h1b", "h-1b", "visa sponsorship", "sponsor visa"}
)

// Result is the classifier output attached to a JobRecord.
type Result struct {
	Sponsors   domain.Sponsorship
	Confidence domain.Confidence
	Keywords   []string
}

// Classifier does case-insensitive substring matching only. A negative
// phrase anywhere in the text wins over every positive keyword.
type Classifier struct {
	Negative []string
	Positive []string
	Strong   []string
}

func DefaultClassifier() Classifier {
	return Classifier{
		Negative: DefaultNegative,
		Positive: DefaultPositive,
		Strong:   DefaultStrong,
	}
}

// NewClassifier falls back to the default list for any list left empty.
func NewClassifier(negative, positive, strong []string) Classifier {
	c := DefaultClassifier()
	if len(negative) > 0 {
		c.Negative = lowerAll(negative)
	}
	if len(positive) > 0 {
		c.Positive = lowerAll(positive)
	}
	if len(strong) > 0 {
		c.Strong = lowerAll(strong)
	}
	return c
}

func (c Classifier) Check(text string) Result {
	t := fold(text)

	if containsAny(t, c.Negative) {
		return Result{Sponsors: domain.SponsorNo, Confidence: domain.ConfidenceHigh, Keywords: []string{}}
	}

	found := []string{}
	for _, kw := range c.Positive {
		if kw != "" && strings.Contains(t, kw) {
			found = append(found, kw)
		}
	}
	if len(found) == 0 {
		return Result{Sponsors: domain.SponsorUnknown, Confidence: domain.ConfidenceUnknown, Keywords: []string{}}
	}

	conf := domain.ConfidenceMedium
	for _, kw := range found {
		if contains(c.Strong, kw) {
			conf = domain.ConfidenceHigh
			break
		}
	}
	return Result{Sponsors: domain.SponsorYes, Confidence: conf, Keywords: found}
}

// Annotate classifies j.Description and writes the outcome onto j.
func (c Classifier) Annotate(j *domain.JobRecord) {
	r := c.Check(j.Description)
	j.SponsorsH1B = r.Sponsors
	j.Confidence = r.Confidence
	j.KeywordsFound = r.Keywords
}

// CheckSponsorship runs the default classifier.
func CheckSponsorship(text string) Result {
	return DefaultClassifier().Check(text)
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func lowerAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.ToLower(strings.TrimSpace(x))
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

package types

import (
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/fetch"
)

// Env is what every adapter needs besides its own Config.
type Env struct {
	HTTP       *fetch.Client
	Classifier filter.Classifier
	Roles      filter.Roles
	Now        func() time.Time
}

func (e Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Accept keeps target-role postings and annotates them with the
// sponsorship verdict for their description.
func (e Env) Accept(j *domain.JobRecord) bool {
	if !e.MatchRole(j.Title, j.Description) {
		return false
	}
	cls := e.Classifier
	if len(cls.Positive) == 0 && len(cls.Negative) == 0 {
		cls = filter.DefaultClassifier()
	}
	cls.Annotate(j)
	return true
}

func (e Env) MatchRole(title, description string) bool {
	if len(e.Roles) == 0 {
		return filter.IsTargetRole(title, description)
	}
	return e.Roles.Match(title, description)
}

func (e Env) Stamp() string {
	return e.Clock().Format(time.RFC3339)
}

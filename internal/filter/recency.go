package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
)

var (
	reHoursAgo = regexp.MustCompile(`(\d+)\s*hours?\s*ago`)
	reDaysAgo  = regexp.MustCompile(`(\d+)\s*days?\s*ago`)

	// Year-less layouts get now's year.
	absoluteLayouts = []struct {
		layout  string
		hasYear bool
	}{
		{"1/2/2006", true},
		{"2006-1-2", true},
		{"Jan 2", false},
		{"January 2", false},
	}
)

// IsWithin24Hours decides whether a free-text posting age means "posted in
// the last day". Anything it cannot read is treated as old.
func IsWithin24Hours(text string, now time.Time) bool {
	if text == "" || text == "Unknown" {
		return false
	}
	t := strings.ToLower(strings.TrimSpace(text))

	switch {
	case containsAny(t, []string{"today", "just posted", "0 days ago"}):
		return true
	case containsAny(t, []string{"1 day ago", "yesterday", "24 hours ago"}):
		return true
	case strings.Contains(t, "hours ago"):
		if m := reHoursAgo.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[1])
			return err == nil && n <= 24
		}
		return true
	case strings.Contains(t, "days ago"):
		if m := reDaysAgo.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[1])
			return err == nil && n <= 1
		}
		return false
	case containsAny(t, []string{"week", "month", "year"}):
		return false
	}

	for _, l := range absoluteLayouts {
		parsed, err := time.ParseInLocation(l.layout, t, now.Location())
		if err != nil {
			continue
		}
		if !l.hasYear {
			parsed = time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		}
		// Future dates count as recent.
		return now.Sub(parsed) <= 24*time.Hour
	}
	return false
}

func IsRecent(text string) bool {
	return IsWithin24Hours(text, time.Now())
}

// FilterRecent keeps records whose PostingDate passes IsWithin24Hours.
func FilterRecent(jobs []domain.JobRecord, now time.Time) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if IsWithin24Hours(j.PostingDate, now) {
			out = append(out, j)
		}
	}
	return out
}

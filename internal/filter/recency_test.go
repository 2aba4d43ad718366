package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"h1bhunt-engine/internal/domain"
)

func TestIsWithin24Hours(t *testing.T) {
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want bool
	}{
		{"today", true},
		{"Posted Today", true},
		{"Just posted", true},
		{"0 days ago", true},
		{"1 day ago", true},
		{"yesterday", true},
		{"24 hours ago", true},
		{"18 hours ago", true},
		{"1 hour ago", false},
		{"36 hours ago", false},
		{"Posted hours ago", true},
		{"3 days ago", false},
		{"30+ days ago", false},
		{"2 weeks ago", false},
		{"1 month ago", false},
		{"01/15/2024", true},
		{"1/14/2024", false},
		{"2024-01-15", true},
		{"2024-01-13", false},
		{"Jan 15", true},
		{"January 10", false},
		{"Jan 20", true},
		{"", false},
		{"Unknown", false},
		{"Recent", false},
		{"asdf qwerty", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithin24Hours(tt.in, now))
		})
	}
}

func TestFilterRecent(t *testing.T) {
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	jobs := []domain.JobRecord{
		{Title: "a", PostingDate: "today"},
		{Title: "b", PostingDate: "5 days ago"},
		{Title: "c", PostingDate: "2024-01-15"},
	}
	got := FilterRecent(jobs, now)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
}

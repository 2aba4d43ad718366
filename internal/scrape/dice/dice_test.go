package dice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

const page = `<div class="card-body">
  <h5><a href="/job-detail/abc">Site Reliability Engineer</a></h5>
  <span class="employer-name">Umbrella</span>
  <span class="location">Raleigh, NC</span>
  <div class="job-description">Great team. Work visa holders considered.</div>
</div>`

func TestParseCards(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	jobs := ParseCards(doc, now)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Site Reliability Engineer", jobs[0].Title)
	assert.Equal(t, "Umbrella", jobs[0].Company)
	assert.Equal(t, "https://www.dice.com/job-detail/abc", jobs[0].URL)
	assert.Equal(t, "Dice", jobs[0].Source)
}

func TestParseCardsTestIDFallback(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div data-testid="job-card"><a data-testid="job-title" href="https://www.dice.com/j/9">Platform Engineer</a><a class="employer">Vandelay</a></div>`))
	require.NoError(t, err)
	jobs := ParseCards(doc, now)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Platform Engineer", jobs[0].Title)
	assert.Equal(t, "Vandelay", jobs[0].Company)
	assert.Equal(t, "https://www.dice.com/j/9", jobs[0].URL)
}

func TestFetchSendsPostedDateFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ONE", q.Get("filters.postedDate"))
		assert.Equal(t, "30", q.Get("radius"))
		assert.Equal(t, "20", q.Get("pageSize"))
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Queries = []string{"SRE"}
	cfg.MaxPages = 1
	cfg.JitterMin, cfg.JitterMax = 0, 0

	res, err := New(cfg, types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, domain.SponsorYes, res.Jobs[0].SponsorsH1B)
	assert.Equal(t, domain.ConfidenceMedium, res.Jobs[0].Confidence)
	assert.Equal(t, []string{"work visa"}, res.Jobs[0].KeywordsFound)
}

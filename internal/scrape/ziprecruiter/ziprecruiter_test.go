package ziprecruiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
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

const page = `<div class="job_content">
  <h2><a href="/c/Acme/Job/DevOps-Engineer?jid=1">DevOps Engineer</a></h2>
  <a class="company_name">Acme</a>
  <span class="location">Denver, CO</span>
  <p class="job_snippet">OPT and H-1B candidates welcome.</p>
</div>
<div class="job_content">
  <h2>Barista</h2>
  <span class="company">Beans</span>
  <a class="job_link" href="https://jobs.example.com/b">apply</a>
</div>`

func TestParseCards(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	jobs := ParseCards(doc, now)
	require.Len(t, jobs, 2)
	assert.Equal(t, "DevOps Engineer", jobs[0].Title)
	assert.Equal(t, "https://www.ziprecruiter.com/c/Acme/Job/DevOps-Engineer?jid=1", jobs[0].URL)
	assert.Equal(t, "Recent", jobs[0].PostingDate)
	assert.Equal(t, "Beans", jobs[1].Company)
	assert.Equal(t, "https://jobs.example.com/b", jobs[1].URL, "a.job_link wins over the title anchor")
	assert.Equal(t, "Unknown", jobs[1].Location)
}

func TestParseCardsArticleFallback(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<article class="job_result"><a class="job_link" href="/j/2">Cloud Engineer</a></article>`))
	require.NoError(t, err)
	jobs := ParseCards(doc, now)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Cloud Engineer", jobs[0].Title)
	assert.Equal(t, "https://www.ziprecruiter.com/j/2", jobs[0].URL)
}

func TestFetchStopsWhenBlocked(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "1", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Queries = []string{"DevOps Engineer"}
	cfg.MaxPages = 3
	cfg.JitterMin, cfg.JitterMax = 0, 0

	res, err := New(cfg, types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }}).Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Blocked)
	assert.EqualValues(t, 2, hits.Load())
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, domain.SponsorYes, res.Jobs[0].SponsorsH1B)
	assert.Equal(t, domain.ConfidenceHigh, res.Jobs[0].Confidence)
	assert.Equal(t, []string{"h-1b", "opt"}, res.Jobs[0].KeywordsFound)
}

package indeed

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

const resultsPage = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/rc/clk?jk=111">Senior DevOps Engineer</a></h2>
  <span class="companyName">Acme Corp</span>
  <div class="companyLocation">Austin, TX</div>
  <span class="date">Posted 3 hours ago</span>
  <div class="summary">We sponsor H1B visas for strong candidates.</div>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/rc/clk?jk=222">Site Reliability Engineer</a></h2>
  <span class="companyName">OldCo</span>
  <div class="companyLocation">Remote</div>
  <span class="date">Posted 5 days ago</span>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/rc/clk?jk=333">Accountant</a></h2>
  <span class="companyName">Ledgers Ltd</span>
  <span data-testid="job-age">Just posted</span>
  <div class="summary">Bookkeeping.</div>
</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseCards(t *testing.T) {
	jobs := ParseCards(mustDoc(t, resultsPage), "", now)
	require.Len(t, jobs, 2)

	j := jobs[0]
	assert.Equal(t, "Senior DevOps Engineer", j.Title)
	assert.Equal(t, "Acme Corp", j.Company)
	assert.Equal(t, "Austin, TX", j.Location)
	assert.Equal(t, "https://www.indeed.com/rc/clk?jk=111", j.URL)
	assert.Equal(t, "Posted 3 hours ago", j.PostingDate)
	assert.Equal(t, "Indeed", j.Source)
	assert.Equal(t, "2024-01-15T12:00:00Z", j.ScrapedDate)

	// data-testid fallback for the age label, and "Unknown" for missing fields
	assert.Equal(t, "Just posted", jobs[1].PostingDate)
	assert.Equal(t, "Unknown", jobs[1].Location)
}

func TestFetchFiltersAndClassifies(t *testing.T) {
	var searches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/jobs":
			searches++
			assert.Equal(t, "1", r.URL.Query().Get("fromage"))
			if r.URL.Query().Get("start") == "10" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(resultsPage))
		case r.URL.Path == "/rc/clk" && r.URL.Query().Get("jk") == "111":
			_, _ = w.Write([]byte(`<div class="jobsearch-jobDescriptionText"><p>Full text. Visa sponsorship available.</p></div>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL + "/jobs"
	cfg.Queries = []string{"DevOps Engineer H1B sponsorship"}
	cfg.PageDelay = 0

	s := New(cfg, types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }})
	res, err := s.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Blocked)
	assert.Equal(t, 2, searches, "403 on page 2 stops paging")
	require.Len(t, res.Jobs, 1, "accountant is not a target role")

	j := res.Jobs[0]
	assert.Equal(t, srv.URL+"/rc/clk?jk=111", j.URL)
	assert.Contains(t, j.Description, "Full text.")
	assert.Equal(t, domain.SponsorYes, j.SponsorsH1B)
	assert.Equal(t, domain.ConfidenceHigh, j.Confidence)
	assert.Equal(t, []string{"visa sponsorship", "visa sponsor"}, j.KeywordsFound)
}

package careers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

const listing = `<html><body>
<div class="nav">Home</div>
<li class="job-card"><a href="/jobs/1">Senior Site Reliability Engineer, Cloud</a></li>
<li class="job-card"><a href="https://jobs.netflix.com/jobs/2">Product Designer</a></li>
<div class="JobTile"><span>DevOps Engineer, Payments</span></div>
<a class="career-link" href="/jobs/3">Platform Engineer</a>
<li class="role-item">Data Scientist</li>
<li class="position">Cloud Engineer (too late, sixth candidate)</li>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParsePage(t *testing.T) {
	co := Company{Name: "Netflix", URL: "https://jobs.netflix.com/search"}
	jobs := ParsePage(mustDoc(t, listing), co, filter.NewRoles(nil), now)
	require.Len(t, jobs, 3)

	assert.Equal(t, "Senior Site Reliability Engineer, Cloud", jobs[0].Title)
	assert.Equal(t, "https://netflix.com/jobs/1", jobs[0].URL)
	assert.Equal(t, "Netflix Careers", jobs[0].Source)
	assert.Equal(t, domain.SponsorYes, jobs[0].SponsorsH1B)
	assert.Equal(t, []string{catalog.KeywordKnownSponsor}, jobs[0].KeywordsFound)

	assert.Equal(t, "DevOps Engineer, Payments", jobs[1].Title)
	assert.Equal(t, co.URL, jobs[1].URL, "no link falls back to the career page")

	assert.Equal(t, "Platform Engineer", jobs[2].Title)
	assert.Equal(t, "https://netflix.com/jobs/3", jobs[2].URL)
}

func TestParsePageTruncatesTitle(t *testing.T) {
	long := strings.Repeat("x", 150) + " devops"
	jobs := ParsePage(mustDoc(t, `<div class="job">`+long+`</div>`), Company{Name: "Meta"}, filter.NewRoles(nil), now)
	require.Len(t, jobs, 1)
	assert.Len(t, []rune(jobs[0].Title), 100)
}

func TestFetchFallsBackToPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blocked":
			w.WriteHeader(http.StatusForbidden)
		case "/down":
			w.WriteHeader(http.StatusBadGateway)
		case "/empty":
			_, _ = w.Write([]byte(`<div class="job">Barista</div>`))
		default:
			assert.Equal(t, "devops", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(listing))
		}
	}))
	defer srv.Close()

	cfg := Config{Companies: []Company{
		{Name: "Google", URL: srv.URL + "/blocked"},
		{Name: "Amazon", URL: srv.URL + "/down"},
		{Name: "Meta", URL: srv.URL + "/empty"},
		{Name: "Netflix", URL: srv.URL + "/ok", Params: url.Values{"q": {"devops"}}},
	}}
	res, err := New(cfg, types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }}).Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Blocked)

	bySource := map[string]int{}
	for _, j := range res.Jobs {
		bySource[j.Source]++
	}
	assert.Equal(t, 2, bySource["Google Manual Verification"])
	assert.Equal(t, 2, bySource["Amazon Manual Verification"])
	assert.Equal(t, 2, bySource["Meta Manual Verification"])
	assert.Equal(t, 3, bySource["Netflix Careers"])

	for _, j := range res.Jobs {
		if j.Company == "Google" {
			assert.Equal(t, srv.URL+"/blocked", j.URL)
		}
	}
}

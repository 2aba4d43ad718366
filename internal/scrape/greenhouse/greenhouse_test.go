package greenhouse

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

const board = `<html><body>
<div class="opening"><a href="/acme/jobs/123?gh_src=x">DevOps Engineer</a><span class="location">Austin, TX</span></div>
<div class="opening"><a href="/acme/jobs/123">DevOps Engineer</a></div>
<div class="opening"><a href="/acme/jobs/456">Accountant</a></div>
<div class="opening"><a href="/acme/jobs/789">Apply</a></div>
<a href="/acme/about">About us</a>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseBoard(t *testing.T) {
	co := Company{Slug: "acme", Name: "Acme"}
	jobs := ParseBoard(mustDoc(t, board), "https://boards.greenhouse.io", co, now)
	require.Len(t, jobs, 3, "one record per job id")

	assert.Equal(t, "DevOps Engineer", jobs[0].Title)
	assert.Equal(t, "Austin, TX", jobs[0].Location)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/123?gh_src=x", jobs[0].URL)
	assert.Equal(t, "Greenhouse", jobs[0].Source)
	assert.Equal(t, "Unknown", jobs[0].PostingDate)
	assert.Equal(t, "", jobs[2].Title, "link text like Apply is not a title")
}

func TestExtractJobID(t *testing.T) {
	assert.Equal(t, "123", extractJobID("https://x/acme/jobs/123?gh_src=1"))
	assert.Equal(t, "", extractJobID("https://x/acme/about"))
}

func TestFetchHydratesAndClassifies(t *testing.T) {
	var accountantHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acme":
			_, _ = w.Write([]byte(board))
		case "/acme/jobs/123":
			_, _ = w.Write([]byte(`<h1>DevOps Engineer</h1><div id="content"><p>We provide H1B sponsorship.</p></div>`))
		case "/acme/jobs/456":
			accountantHits.Add(1)
			_, _ = w.Write([]byte(`<h1>Accountant</h1>`))
		case "/acme/jobs/789":
			_, _ = w.Write([]byte(`<h1>Platform Engineer</h1><div class="location">Remote</div>
<div id="content"><p>Candidates must be authorized to work in the US.</p></div>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL + "/", Companies: []Company{{Slug: "acme", Name: "Acme"}}},
		types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }})
	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "greenhouse", res.Source)
	assert.Zero(t, accountantHits.Load(), "non-target titles are skipped before the page fetch")

	byTitle := map[string]domain.JobRecord{}
	for _, j := range res.Jobs {
		byTitle[j.Title] = j
	}
	require.Len(t, byTitle, 2)

	dev := byTitle["DevOps Engineer"]
	assert.Equal(t, domain.SponsorYes, dev.SponsorsH1B)
	assert.Equal(t, domain.ConfidenceHigh, dev.Confidence)
	assert.Contains(t, dev.KeywordsFound, "h1b")

	plat := byTitle["Platform Engineer"]
	assert.Equal(t, "Remote", plat.Location)
	assert.Equal(t, domain.SponsorNo, plat.SponsorsH1B)
}

func TestFetchSkipsFailingBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL, Companies: []Company{{Slug: "gone", Name: "Gone"}}},
		types.Env{HTTP: fetch.New(5*time.Second, nil)})
	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
}

package workday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestParseBoardURL(t *testing.T) {
	b, err := parseBoardURL("https://nvidia.wd5.myworkdayjobs.com/en-us/NVIDIAExternalCareerSite")
	require.NoError(t, err)
	assert.Equal(t, board{Scheme: "https", Host: "nvidia.wd5.myworkdayjobs.com", Tenant: "nvidia", Site: "NVIDIAExternalCareerSite", Locale: "en-US"}, b)
	assert.Equal(t, "https://nvidia.wd5.myworkdayjobs.com/wday/cxs/nvidia/NVIDIAExternalCareerSite/jobs", b.jobsEndpoint())
	assert.Equal(t, "https://nvidia.wd5.myworkdayjobs.com/en-US/NVIDIAExternalCareerSite/job/Remote/SRE_JR1", b.jobURL("/job/Remote/SRE_JR1"))

	b, err = parseBoardURL("https://acme.wd1.myworkdayjobs.com/External")
	require.NoError(t, err)
	assert.Empty(t, b.Locale)
	assert.Equal(t, "External", b.Site)

	for _, bad := range []string{"", "https://example.com/x", "https://acme.wd1.myworkdayjobs.com/"} {
		_, err := parseBoardURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestPostedLabel(t *testing.T) {
	assert.Equal(t, "Today", PostedLabel("Posted Today"))
	assert.Equal(t, "3 Days Ago", PostedLabel("Posted 3 Days Ago"))
	assert.Equal(t, "Unknown", PostedLabel(" "))
	assert.Equal(t, "Yesterday", PostedLabel("Yesterday"))
}

func TestFetch(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/en-US/Ext":
			http.SetCookie(w, &http.Cookie{Name: csrfName, Value: "csrf-1", Path: "/"})
			_, _ = w.Write([]byte("<html>careers</html>"))
		case "/wday/cxs/127/Ext/jobs":
			posts.Add(1)
			assert.Equal(t, "csrf-1", r.Header.Get("X-Calypso-Csrf-Token"))
			var req jobsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "devops", req.SearchText)
			w.Header().Set("Content-Type", "application/json")
			if req.Offset > 0 {
				_, _ = w.Write([]byte(`{"total":3,"jobPostings":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"total":3,"jobPostings":[
				{"title":"DevOps Engineer","externalPath":"/job/Austin-TX/DevOps_JR1","locationsText":"Austin, TX","postedOn":"Posted Today"},
				{"title":"Accountant","externalPath":"/job/Austin-TX/Acct_JR2","locationsText":"Austin, TX","postedOn":"Posted Today"},
				{"title":"Cloud Engineer","externalPath":"/job/Remote/Cloud_JR3","locationsText":"","postedOn":"Posted 30+ Days Ago"}
			]}`))
		case "/wday/cxs/127/Ext/job/Austin-TX/DevOps_JR1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"jobPostingInfo":{"jobDescription":"<p>We offer H1B visa sponsorship.</p>"}}`))
		case "/wday/cxs/127/Ext/job/Remote/Cloud_JR3":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"jobPostingInfo":{"jobDescription":"<p>Must be a US citizen.</p>","location":"Remote"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := New(Config{SearchText: "devops", Companies: []Company{{BoardURL: srv.URL + "/en-US/Ext", Name: "Acme"}}},
		types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }})
	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Blocked)
	assert.Equal(t, int32(1), posts.Load(), "total reached on first page")
	require.Len(t, res.Jobs, 2)

	byTitle := map[string]domain.JobRecord{}
	for _, j := range res.Jobs {
		byTitle[j.Title] = j
	}
	d := byTitle["DevOps Engineer"]
	assert.Equal(t, "Acme", d.Company)
	assert.Equal(t, "Austin, TX", d.Location)
	assert.Equal(t, "Today", d.PostingDate)
	assert.Equal(t, srv.URL+"/en-US/Ext/job/Austin-TX/DevOps_JR1", d.URL)
	assert.Equal(t, "Workday", d.Source)
	assert.Equal(t, domain.SponsorYes, d.SponsorsH1B)

	c := byTitle["Cloud Engineer"]
	assert.Equal(t, "Remote", c.Location)
	assert.Equal(t, "30+ Days Ago", c.PostingDate)
	assert.Equal(t, domain.SponsorNo, c.SponsorsH1B)
}

func TestFetchMarksChallengeBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><title>Attention Required! | Cloudflare</title></html>`))
	}))
	defer srv.Close()

	s := New(Config{Companies: []Company{{BoardURL: srv.URL + "/Ext", Name: "A"}, {BoardURL: srv.URL + "/Other", Name: "B"}}},
		types.Env{HTTP: fetch.New(5*time.Second, nil), Now: func() time.Time { return now }})
	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Blocked)
	assert.Empty(t, res.Jobs)
}

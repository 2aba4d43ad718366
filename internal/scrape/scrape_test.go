package scrape

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func posting(title, url, posted string, s domain.Sponsorship) domain.JobRecord {
	return domain.JobRecord{
		Title: title, Company: "Acme", Location: "Austin, TX", URL: url, Source: "Indeed",
		PostingDate: posted, ScrapedDate: now.Format(time.RFC3339), SponsorsH1B: s,
	}
}

func TestDedupKey(t *testing.T) {
	a := posting("SRE", "https://Example.com/job/1?utm_source=x#frag", "today", domain.SponsorYes)
	b := posting("SRE (copy)", "https://example.com/job/1", "today", domain.SponsorYes)
	assert.Equal(t, DedupKey(a), DedupKey(b))
	assert.Equal(t, "url:https://example.com/job/1", DedupKey(a))

	noURL := posting("SRE", "", "today", domain.SponsorYes)
	assert.Equal(t, "sig:sre-acme-austin, tx", DedupKey(noURL))

	leads := catalog.ManualVerificationLeads("Google", "https://careers.google.com", now)
	require.Len(t, leads, 2)
	assert.NotEqual(t, DedupKey(leads[0]), DedupKey(leads[1]), "leads sharing a careers URL stay distinct")
}

func TestDedup(t *testing.T) {
	in := []domain.JobRecord{
		posting("A", "https://x/1", "today", domain.SponsorYes),
		posting("B", "https://x/1?utm_campaign=y", "today", domain.SponsorNo),
		posting("C", "https://x/2", "today", domain.SponsorNo),
	}
	out := Dedup(in)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "C", out[1].Title)
}

func TestKeep(t *testing.T) {
	cfg := config.Default()
	cfg.Filters.RecentOnly = true
	cfg.Filters.LocationsBlock = []string{"india"}

	cases := []struct {
		name   string
		job    domain.JobRecord
		sponly bool
		keep   bool
		reason string
	}{
		{"fresh", posting("SRE", "u", "Just posted", domain.SponsorUnknown), false, true, ""},
		{"stale", posting("SRE", "u", "3 days ago", domain.SponsorYes), false, false, "stale"},
		{"stale hours", posting("SRE", "u", "30 hours ago", domain.SponsorYes), false, false, "stale"},
		{"undated recent", posting("SRE", "u", "Recent", domain.SponsorYes), false, true, ""},
		{"undated unknown", posting("SRE", "u", "Unknown", domain.SponsorYes), false, true, ""},
		{"lead ignores recency", catalog.DatabaseLeads(now)[0], false, true, ""},
		{"blocked location", func() domain.JobRecord {
			j := posting("SRE", "u", "today", domain.SponsorYes)
			j.Location = "Bangalore, India"
			return j
		}(), false, false, "location"},
		{"sponsors only drops unknown", posting("SRE", "u", "today", domain.SponsorUnknown), true, false, "sponsorship"},
		{"sponsors only keeps yes", posting("SRE", "u", "today", domain.SponsorYes), true, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.Filters.SponsorsOnly = tc.sponly
			keep, why := Keep(c, tc.job, now)
			assert.Equal(t, tc.keep, keep)
			assert.Equal(t, tc.reason, why)
		})
	}

	cfg.Filters.RecentOnly = false
	keep, _ := Keep(cfg, posting("SRE", "u", "3 weeks ago", domain.SponsorNo), now)
	assert.True(t, keep)
}

func TestFilter(t *testing.T) {
	cfg := config.Default()
	out := Filter(cfg, []domain.JobRecord{
		posting("A", "https://x/1", "today", domain.SponsorYes),
		posting("A dup", "https://x/1", "today", domain.SponsorYes),
		posting("B", "https://x/2", "2 weeks ago", domain.SponsorYes),
	}, now)
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].Title)
}

func TestFilterKeepsUndatedSources(t *testing.T) {
	from := func(source, url, posted string) domain.JobRecord {
		j := posting("DevOps Engineer", url, posted, domain.SponsorUnknown)
		j.Source = source
		return j
	}
	in := []domain.JobRecord{
		from("ZipRecruiter", "https://www.ziprecruiter.com/jobs/1", "Recent"),
		from("Dice", "https://www.dice.com/job-detail/2", "Recent"),
		from("Indeed RSS", "https://www.indeed.com/viewjob?jk=3", "4 hours ago"),
		from("Greenhouse", "https://boards.greenhouse.io/acme/jobs/4", "Unknown"),
	}
	out := Filter(config.Default(), in, now)
	assert.Equal(t, in, out)
}

func TestStore(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "t.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	visa := domain.JobRecord{
		Title: "DevOps Engineer - Acme", Company: "Acme", Location: "Multiple US Locations",
		URL: "https://example.com/acme", Source: "MyVisaJobs", PostingDate: "Check company website",
		H1BApplications: "1,234", AvgH1BSalary: "$140,000", KeywordsFound: []string{catalog.KeywordConfirmedSponsor},
	}
	jobs := []domain.JobRecord{posting("SRE", "https://x/1", "today", domain.SponsorYes), visa}

	var seen []string
	added := Store(ctx, db.Pool, jobs, now, func(j domain.JobRecord) { seen = append(seen, j.Title) })
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"SRE", "DevOps Engineer - Acme"}, seen)

	assert.Zero(t, Store(ctx, db.Pool, jobs, now, nil), "second run adds nothing")

	emps, err := store.ListEmployers(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, "1,234", emps[0].H1BCount)
}

func TestFetchers(t *testing.T) {
	cfg := config.Default()
	env := NewEnv(cfg, func() time.Time { return now })

	var names []string
	for _, f := range Fetchers(cfg, env) {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"indeed", "glassdoor", "ziprecruiter", "dice", "indeed-rss", "careers", "myvisajobs"}, names)

	cfg.Sources = config.Config{}.Sources
	cfg.Sources.Lever.Enabled = true
	cfg.Sources.Workday.Enabled = true
	cfg.Sources.Workday.Companies = []config.Company{{Name: "NVIDIA", Slug: "https://nvidia.wd5.myworkdayjobs.com/en-US/Ext"}}
	cfg.Email.Enabled = true

	names = names[:0]
	for _, f := range Fetchers(cfg, env) {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"workday", "email"}, names, "lever has no companies")
}

func TestNewEnvMergesClassifierLists(t *testing.T) {
	cfg := config.Default()
	env := NewEnv(cfg, nil)
	assert.Equal(t, domain.SponsorUnknown, env.Classifier.Check("We are cap-exempt").Sponsors)

	cfg.Classifier.Positive = []string{"Cap-Exempt", "h1b"}
	cfg.Classifier.Negative = []string{"w2 only"}
	env = NewEnv(cfg, nil)

	r := env.Classifier.Check("We are cap-exempt")
	assert.Equal(t, domain.SponsorYes, r.Sponsors)
	assert.Equal(t, domain.ConfidenceMedium, r.Confidence)
	assert.Equal(t, domain.SponsorNo, env.Classifier.Check("H1B ok, W2 only").Sponsors)
	assert.Equal(t, domain.SponsorNo, env.Classifier.Check("no sponsorship").Sponsors, "defaults stay")
}

func TestMappers(t *testing.T) {
	pages := MapCareerPages([]config.CareerPage{{Name: "Google", URL: "https://g", Params: map[string]string{"q": "sre"}}})
	require.Len(t, pages, 1)
	assert.Equal(t, "sre", pages[0].Params.Get("q"))

	gh := MapGreenhouseCompanies([]config.Company{{Slug: "stripe"}})
	assert.Equal(t, "stripe", gh[0].Name)

	wd := MapWorkdayCompanies([]config.Company{{Name: "N", Slug: "https://n.wd5.myworkdayjobs.com/Ext"}})
	assert.Equal(t, "https://n.wd5.myworkdayjobs.com/Ext", wd[0].BoardURL)
}

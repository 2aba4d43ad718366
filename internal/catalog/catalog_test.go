package catalog

import (
	"strings"
	"testing"
	"time"

	"h1bhunt-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestSponsorsCatalog(t *testing.T) {
	list := Sponsors()
	require.Len(t, list, 17)
	assert.Equal(t, []string{CategoryLarge, CategoryMedium, CategorySmaller, CategoryConsulting}, Categories())

	counts := map[string]int{}
	for _, c := range list {
		counts[c.Category]++
		assert.NotEmpty(t, c.CareerURL, c.Name)
		assert.NotEmpty(t, c.TypicalRoles, c.Name)
		assert.Equal(t, verifiedUSCIS, c.Verified)
	}
	assert.Equal(t, 5, counts[CategoryLarge])
	assert.Equal(t, 2, counts[CategoryConsulting])

	// callers get copies
	list[0].TypicalRoles[0] = "changed"
	assert.Equal(t, "Software Engineer", Sponsors()[0].TypicalRoles[0])
}

func TestSponsorRows(t *testing.T) {
	rows := SponsorRows()
	require.Len(t, rows, 17)
	ms := rows[0]
	assert.Equal(t, "Microsoft", ms.CompanyName)
	assert.Equal(t, "Software Engineer, DevOps Engineer, SRE", ms.TypicalEngineeringRoles)
	assert.Equal(t, "Visit https://careers.microsoft.com and search for DevOps/SRE/Infrastructure roles", ms.ActionRequired)
	assert.Equal(t, "UNKNOWN - Must verify on career site", ms.HasDevOpsSREJobs)

	fields := ms.CSVFields()
	assert.Equal(t, "company_name", fields[0].Name)
	assert.Len(t, fields, 10)
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("  gitlab ")
	require.True(t, ok)
	assert.Equal(t, "https://about.gitlab.com/jobs", c.CareerURL)
	_, ok = Lookup("Initech")
	assert.False(t, ok)
}

func TestFallbackEmployers(t *testing.T) {
	all := FallbackEmployers("DevOps Engineer", 0)
	assert.Len(t, all, len(fallbackEmployers))

	hi := FallbackEmployers("DevOps Engineer", 100000)
	for _, e := range hi {
		assert.GreaterOrEqual(t, e.SalaryUSD(), 100000, e.Company)
		assert.NotEqual(t, "Accenture LLP", e.Company)
	}
	assert.Len(t, hi, len(fallbackEmployers)-1)

	assert.Equal(t,
		"https://www.google.com/search?q=Google%20LLC%20DevOps%20Engineer%20careers%20jobs",
		JobSearchURL("Google LLC", "DevOps Engineer"))
	assert.Equal(t, JobSearchURL("Microsoft Corporation", "DevOps Engineer"), hi[0].JobSearchURL)
}

func TestManualVerificationLeads(t *testing.T) {
	leads := ManualVerificationLeads("Netflix", "", now)
	require.Len(t, leads, 2)
	assert.Equal(t, "Senior DevOps Engineer - Netflix", leads[0].Title)
	assert.Equal(t, "Site Reliability Engineer - Netflix", leads[1].Title)
	assert.Equal(t, "https://netflix.com/careers", leads[0].URL)
	assert.Equal(t, "Netflix Manual Verification", leads[0].Source)
	assert.Equal(t, domain.SponsorYes, leads[0].SponsorsH1B)
	assert.True(t, IsManualVerification(leads[0]))
	assert.Contains(t, leads[0].Description, `Search for "senior devops engineer"`)

	leads = ManualVerificationLeads("Google", "https://careers.google.com/jobs/results/", now)
	assert.Equal(t, "https://careers.google.com/jobs/results/", leads[1].URL)
}

func TestDatabaseLeadsAndGuide(t *testing.T) {
	leads := DatabaseLeads(now)
	require.Len(t, leads, 5)
	var names []string
	for _, l := range leads {
		names = append(names, l.Company)
		assert.Equal(t, SourceDatabase, l.Source)
		assert.False(t, IsManualVerification(l))
	}
	assert.Equal(t, "Apple,Uber,Lyft,Airbnb,Stripe", strings.Join(names, ","))
	assert.Equal(t, "https://airbnb.com/careers", leads[3].URL)

	g := ManualSearchGuide(now)
	assert.Equal(t, "MANUAL H1B JOB SEARCH GUIDE", g.Title)
	assert.Equal(t, "2024-01-15T12:00:00Z", g.ScrapedDate)
	assert.Equal(t, []string{"manual search guide"}, g.KeywordsFound)
}

func TestBundle(t *testing.T) {
	b := NewBundle("2024-01-15T12:00:00")
	assert.Equal(t, ImportantNote, b.ImportantNote)
	assert.Len(t, b.SearchResources, 5)
	assert.Len(t, b.VerificationGuide.Steps, 5)
	assert.Len(t, b.H1BSponsors, 17)
}

func TestMatch(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Google LLC", "Google"},
		{"Microsoft Corporation", "Microsoft"},
		{"Datadog, Inc.", "Datadog"},
		{"Amazon Web Services", "Amazon"},
		{"Databrick", "Databricks"},
		{"  hashicorp ", "HashiCorp"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			c, ok := Match(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.want, c.Name)
		})
	}

	for _, miss := range []string{"", "Inc.", "Acme Widgets"} {
		_, ok := Match(miss)
		assert.False(t, ok, miss)
	}
}

func TestIsLead(t *testing.T) {
	assert.True(t, IsLead(ManualVerificationLeads("Google", "", now)[0]))
	assert.True(t, IsLead(DatabaseLeads(now)[0]))
	assert.True(t, IsLead(ManualSearchGuide(now)))
	assert.True(t, IsLead(domain.JobRecord{H1BApplications: "120"}))
	assert.False(t, IsLead(domain.JobRecord{Title: "SRE", KeywordsFound: []string{"h1b"}}))
}

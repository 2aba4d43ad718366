package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"h1bhunt-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func job(title string, sponsor domain.Sponsorship, conf domain.Confidence, scraped time.Time) domain.JobRecord {
	return domain.JobRecord{
		Title:         title,
		Company:       "Acme",
		Location:      "Austin, TX",
		URL:           "https://x/" + title,
		Source:        "Indeed",
		PostingDate:   "Just posted",
		ScrapedDate:   scraped.Format(time.RFC3339),
		SponsorsH1B:   sponsor,
		Confidence:    conf,
		KeywordsFound: []string{"h1b"},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTest(t)
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

func TestInsertJobIfNew(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	j := job("sre", domain.SponsorYes, domain.ConfidenceHigh, now)
	added, err := InsertJobIfNew(ctx, db.Pool, "k1", j)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = InsertJobIfNew(ctx, db.Pool, "k1", j)
	require.NoError(t, err)
	assert.False(t, added, "same source id is ignored")

	_, err = InsertJobIfNew(ctx, db.Pool, " ", j)
	assert.Error(t, err)
}

func TestListJobsFiltersAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	rows := []struct {
		key string
		j   domain.JobRecord
	}{
		{"a", job("alpha", domain.SponsorYes, domain.ConfidenceMedium, now.Add(-time.Hour))},
		{"b", job("bravo", domain.SponsorNo, domain.ConfidenceHigh, now.Add(-2*time.Hour))},
		{"c", job("charlie", domain.SponsorUnknown, domain.ConfidenceUnknown, now.Add(-72*time.Hour))},
		{"d", job("delta", domain.SponsorYes, domain.ConfidenceHigh, now.Add(-30*24*time.Hour))},
	}
	for _, r := range rows {
		_, err := InsertJobIfNew(ctx, db.Pool, r.key, r.j)
		require.NoError(t, err)
	}

	all, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "all", Now: now})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "alpha", all[0].Title, "newest first by default")
	assert.Equal(t, rows[0].j, all[0].JobRecord)

	day, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "24h", Now: now})
	require.NoError(t, err)
	assert.Len(t, day, 2)

	week, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "7d", Now: now})
	require.NoError(t, err)
	assert.Len(t, week, 3)

	cases := map[string][]string{
		"yes":     {"alpha", "delta"},
		"no":      {"bravo"},
		"unknown": {"charlie"},
	}
	for sponsor, want := range cases {
		got, err := ListJobs(ctx, db.Pool, ListJobsOpts{Sponsor: sponsor, Window: "all", Now: now})
		require.NoError(t, err)
		var titles []string
		for _, j := range got {
			titles = append(titles, j.Title)
		}
		assert.Equal(t, want, titles, sponsor)
	}

	byConf, err := ListJobs(ctx, db.Pool, ListJobsOpts{Sort: "confidence", Window: "all", Now: now})
	require.NoError(t, err)
	assert.Equal(t, "bravo", byConf[0].Title)
	assert.Equal(t, "charlie", byConf[3].Title)

	limited, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "all", Limit: 1, Now: now})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCleanupOldJobs(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	_, err := InsertJobIfNew(ctx, db.Pool, "new", job("new", domain.SponsorYes, domain.ConfidenceHigh, now))
	require.NoError(t, err)
	_, err = InsertJobIfNew(ctx, db.Pool, "old", job("old", domain.SponsorYes, domain.ConfidenceHigh, now.AddDate(0, -4, 0)))
	require.NoError(t, err)

	n, err := CleanupOldJobs(ctx, db.Pool, now.AddDate(0, -3, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEmployers(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	for _, e := range []domain.Employer{
		{Company: "Small", H1BCount: "45", AvgSalary: "$110,000"},
		{Company: "Odd", H1BCount: "n/a", AvgSalary: "$90,000"},
		{Company: "Big", H1BCount: "4,970", AvgSalary: "$150,000"},
	} {
		require.NoError(t, UpsertEmployer(ctx, db.Pool, e, now))
	}
	require.NoError(t, UpsertEmployer(ctx, db.Pool, domain.Employer{Company: "Small", H1BCount: "60", AvgSalary: "$115,000"}, now))

	got, err := ListEmployers(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Big", "Small", "Odd"}, []string{got[0].Company, got[1].Company, got[2].Company})
	assert.Equal(t, "60", got[1].H1BCount)
}

func TestDeleteJob(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	_, err := InsertJobIfNew(ctx, db.Pool, "k1", job("sre", domain.SponsorYes, domain.ConfidenceHigh, now))
	require.NoError(t, err)
	jobs, err := ListJobs(ctx, db.Pool, ListJobsOpts{Now: now})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	ok, err := DeleteJob(ctx, db.Pool, jobs[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DeleteJob(ctx, db.Pool, jobs[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

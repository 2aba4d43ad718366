package config

import (
	"h1bhunt-engine/internal/scrape/careers"
	"h1bhunt-engine/internal/scrape/indeedrss"
	"h1bhunt-engine/internal/scrape/myvisajobs"
)

// DefaultQueries are the sponsorship-flavoured searches used on Indeed and
// Glassdoor.
var DefaultQueries = []string{
	"DevOps Engineer H1B sponsorship",
	"Site Reliability Engineer visa sponsorship",
	"Infrastructure Engineer H1B",
	"Platform Engineer visa sponsor",
	"Cloud Engineer H1B sponsorship",
}

// altQueries are plain role searches for boards that do poorly with
// sponsorship terms in the query.
var altQueries = []string{"DevOps Engineer", "Site Reliability Engineer", "Infrastructure Engineer"}

func Default() Config {
	var c Config

	c.App.Port = 38471
	c.App.DataDir = "data"
	c.App.OutputDir = "output"

	c.Polling.ScrapeMinutes = 360
	c.Polling.SourceTimeoutSeconds = 600
	c.Polling.HTTPTimeoutSeconds = 15
	c.Polling.RequestsPerSecond = 0.5

	c.Search.Queries = append([]string(nil), DefaultQueries...)
	c.Search.Location = "United States"

	c.Filters.RecentOnly = true
	c.Filters.RetentionDays = 90

	c.Sources.Indeed = BoardSource{Enabled: true, MaxPages: 3}
	c.Sources.Glassdoor = BoardSource{Enabled: true, MaxPages: 2}
	c.Sources.ZipRecruiter = BoardSource{Enabled: true, MaxPages: 2, Queries: append([]string(nil), altQueries...)}
	c.Sources.Dice = BoardSource{Enabled: true, MaxPages: 2, Queries: append([]string(nil), altQueries...)}

	c.Sources.IndeedRSS.Enabled = true
	c.Sources.IndeedRSS.Terms = append([]string(nil), indeedrss.DefaultTerms...)

	c.Sources.Careers.Enabled = true
	for _, co := range careers.DefaultCompanies {
		p := CareerPage{Name: co.Name, URL: co.URL, Params: map[string]string{}}
		for k := range co.Params {
			p.Params[k] = co.Params.Get(k)
		}
		c.Sources.Careers.Companies = append(c.Sources.Careers.Companies, p)
	}

	c.Sources.MyVisaJobs.Enabled = true
	c.Sources.MyVisaJobs.MinSalary = 80000
	c.Sources.MyVisaJobs.JobTitles = append([]string(nil), myvisajobs.DefaultJobTitles...)
	c.Sources.MyVisaJobs.MaxTitles = 3

	c.Sources.Greenhouse.Companies = []Company{
		{Name: "Stripe", Slug: "stripe"},
		{Name: "Databricks", Slug: "databricks"},
		{Name: "Datadog", Slug: "datadog"},
		{Name: "Coinbase", Slug: "coinbase"},
		{Name: "GitLab", Slug: "gitlab"},
		{Name: "Elastic", Slug: "elastic"},
	}
	c.Sources.Lever.Companies = []Company{
		{Name: "Palantir", Slug: "palantir"},
	}
	c.Sources.SmartRecruiters.Companies = []Company{
		{Name: "Visa", Slug: "Visa"},
	}
	c.Sources.Workday.Companies = []Company{
		{Name: "NVIDIA", Slug: "https://nvidia.wd5.myworkdayjobs.com/en-US/NVIDIAExternalCareerSite"},
		{Name: "Salesforce", Slug: "https://salesforce.wd12.myworkdayjobs.com/en-US/External_Career_Site"},
	}

	c.Email.IMAPHost = "imap.gmail.com"
	c.Email.IMAPPort = 993
	c.Email.Mailbox = "INBOX"
	c.Email.SearchSubjectAny = []string{"job alert", "jobs for you"}
	c.Email.LookbackDays = 7

	c.Telegram.MinConfidence = "high"
	return c
}

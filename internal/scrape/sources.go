// Package scrape wires the per-site adapters to the config and turns their
// output into stored, deduplicated records.
package scrape

import (
	"net/url"
	"strings"
	"time"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/careers"
	"h1bhunt-engine/internal/scrape/dice"
	"h1bhunt-engine/internal/scrape/email"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/glassdoor"
	"h1bhunt-engine/internal/scrape/greenhouse"
	"h1bhunt-engine/internal/scrape/indeed"
	"h1bhunt-engine/internal/scrape/indeedrss"
	"h1bhunt-engine/internal/scrape/lever"
	"h1bhunt-engine/internal/scrape/myvisajobs"
	"h1bhunt-engine/internal/scrape/smartrecruiters"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"
	"h1bhunt-engine/internal/scrape/workday"
	"h1bhunt-engine/internal/scrape/ziprecruiter"
)

// NewEnv builds the shared HTTP client, classifier and role matcher from cfg.
func NewEnv(cfg config.Config, now func() time.Time) types.Env {
	rps := cfg.Polling.RequestsPerSecond
	var limiter *util.HostLimiter
	if rps > 0 {
		limiter = util.NewHostLimiter(rps, 2)
	}

	return types.Env{
		HTTP:       fetch.New(time.Duration(cfg.Polling.HTTPTimeoutSeconds)*time.Second, limiter),
		Classifier: Classifier(cfg),
		Roles:      filter.NewRoles(cfg.Search.TargetRoles),
		Now:        now,
	}
}

// Classifier extends the built-in keyword lists with the configured ones.
func Classifier(cfg config.Config) filter.Classifier {
	c := cfg.Classifier
	if len(c.Negative)+len(c.Positive)+len(c.Strong) == 0 {
		return filter.DefaultClassifier()
	}
	return filter.NewClassifier(
		union(filter.DefaultNegative, c.Negative),
		union(filter.DefaultPositive, c.Positive),
		union(filter.DefaultStrong, c.Strong),
	)
}

// union keeps base order and appends extra entries not already present.
func union(base, extra []string) []string {
	out := append([]string(nil), base...)
	seen := map[string]bool{}
	for _, s := range base {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range extra {
		k := strings.ToLower(strings.TrimSpace(s))
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Fetchers returns an adapter for every enabled source, in a fixed order.
func Fetchers(cfg config.Config, env types.Env) []types.Fetcher {
	var out []types.Fetcher
	s := cfg.Sources
	queries := func(b config.BoardSource) []string {
		if len(b.Queries) > 0 {
			return b.Queries
		}
		return cfg.Search.Queries
	}
	location := util.Or("United States", cfg.Search.Location)

	if s.Indeed.Enabled {
		c := indeed.DefaultConfig()
		c.Queries, c.Location, c.MaxPages = queries(s.Indeed), location, s.Indeed.MaxPages
		out = append(out, indeed.New(c, env))
	}
	if s.Glassdoor.Enabled {
		c := glassdoor.DefaultConfig()
		c.Queries, c.Location, c.MaxPages = queries(s.Glassdoor), location, s.Glassdoor.MaxPages
		out = append(out, glassdoor.New(c, env))
	}
	if s.ZipRecruiter.Enabled {
		c := ziprecruiter.DefaultConfig()
		c.Queries, c.Location, c.MaxPages = queries(s.ZipRecruiter), location, s.ZipRecruiter.MaxPages
		out = append(out, ziprecruiter.New(c, env))
	}
	if s.Dice.Enabled {
		c := dice.DefaultConfig()
		c.Queries, c.Location, c.MaxPages = queries(s.Dice), location, s.Dice.MaxPages
		out = append(out, dice.New(c, env))
	}
	if s.IndeedRSS.Enabled {
		c := indeedrss.DefaultConfig()
		if len(s.IndeedRSS.Terms) > 0 {
			c.Feeds = c.Feeds[:0]
			for _, t := range s.IndeedRSS.Terms {
				c.Feeds = append(c.Feeds, indeedrss.FeedURL(t))
			}
		}
		out = append(out, indeedrss.New(c, env))
	}
	if s.Careers.Enabled && len(s.Careers.Companies) > 0 {
		c := careers.DefaultConfig()
		c.Companies = MapCareerPages(s.Careers.Companies)
		out = append(out, careers.New(c, env))
	}
	if s.MyVisaJobs.Enabled {
		c := myvisajobs.DefaultConfig()
		c.MinSalary = s.MyVisaJobs.MinSalary
		c.MaxTitles = s.MyVisaJobs.MaxTitles
		if len(s.MyVisaJobs.JobTitles) > 0 {
			c.JobTitles = s.MyVisaJobs.JobTitles
		}
		out = append(out, myvisajobs.New(c, env))
	}
	if s.Greenhouse.Enabled && len(s.Greenhouse.Companies) > 0 {
		out = append(out, greenhouse.New(greenhouse.Config{Companies: MapGreenhouseCompanies(s.Greenhouse.Companies)}, env))
	}
	if s.Lever.Enabled && len(s.Lever.Companies) > 0 {
		out = append(out, lever.New(lever.Config{Companies: MapLeverCompanies(s.Lever.Companies)}, env))
	}
	if s.SmartRecruiters.Enabled && len(s.SmartRecruiters.Companies) > 0 {
		out = append(out, smartrecruiters.New(smartrecruiters.Config{Companies: MapSmartRecruitersCompanies(s.SmartRecruiters.Companies)}, env))
	}
	if s.Workday.Enabled && len(s.Workday.Companies) > 0 {
		out = append(out, workday.New(workday.Config{Companies: MapWorkdayCompanies(s.Workday.Companies)}, env))
	}
	if cfg.Email.Enabled {
		out = append(out, email.New(email.Config{
			Host:        cfg.Email.IMAPHost,
			Port:        cfg.Email.IMAPPort,
			Username:    cfg.Email.Username,
			Password:    cfg.Email.AppPassword,
			Mailbox:     cfg.Email.Mailbox,
			SubjectAny:  cfg.Email.SearchSubjectAny,
			MaxMessages: 200,
			Lookback:    time.Duration(cfg.Email.LookbackDays) * 24 * time.Hour,
		}, env))
	}
	return out
}

func MapCareerPages(in []config.CareerPage) []careers.Company {
	out := make([]careers.Company, 0, len(in))
	for _, p := range in {
		params := url.Values{}
		for k, v := range p.Params {
			params.Set(k, v)
		}
		out = append(out, careers.Company{Name: p.Name, URL: p.URL, Params: params})
	}
	return out
}

func MapGreenhouseCompanies(in []config.Company) []greenhouse.Company {
	out := make([]greenhouse.Company, 0, len(in))
	for _, c := range in {
		out = append(out, greenhouse.Company{Slug: c.Slug, Name: util.Or(c.Slug, c.Name)})
	}
	return out
}

func MapLeverCompanies(in []config.Company) []lever.Company {
	out := make([]lever.Company, 0, len(in))
	for _, c := range in {
		out = append(out, lever.Company{Slug: c.Slug, Name: util.Or(c.Slug, c.Name)})
	}
	return out
}

func MapSmartRecruitersCompanies(in []config.Company) []smartrecruiters.Company {
	out := make([]smartrecruiters.Company, 0, len(in))
	for _, c := range in {
		out = append(out, smartrecruiters.Company{Slug: c.Slug, Name: util.Or(c.Slug, c.Name)})
	}
	return out
}

func MapWorkdayCompanies(in []config.Company) []workday.Company {
	out := make([]workday.Company, 0, len(in))
	for _, c := range in {
		out = append(out, workday.Company{BoardURL: c.Slug, Name: util.Or(c.Slug, c.Name)})
	}
	return out
}

// Package careers checks the career pages of large known sponsors. These
// pages are mostly rendered client-side, so a miss produces manual
// verification placeholders instead of an empty result.
package careers

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxCandidates = 5
	maxTitleRunes = 100
)

type Company struct {
	Name   string
	URL    string
	Params url.Values
}

var DefaultCompanies = []Company{
	{Name: "Google", URL: "https://careers.google.com/jobs/results/", Params: url.Values{"q": {"devops OR sre OR infrastructure OR platform"}, "location": {"United States"}}},
	{Name: "Microsoft", URL: "https://careers.microsoft.com/us/en/search-results", Params: url.Values{"keywords": {"devops infrastructure sre platform"}}},
	{Name: "Amazon", URL: "https://amazon.jobs/en/search", Params: url.Values{"base_query": {"devops"}, "loc_query": {"United States"}}},
	{Name: "Meta", URL: "https://www.metacareers.com/jobs/", Params: url.Values{"q": {"devops infrastructure sre"}}},
	{Name: "Netflix", URL: "https://jobs.netflix.com/search", Params: url.Values{"q": {"devops sre infrastructure platform"}}},
}

type Config struct {
	Companies []Company

	JitterMin, JitterMax time.Duration
}

func DefaultConfig() Config {
	return Config{
		Companies: DefaultCompanies,
		JitterMin: 3 * time.Second,
		JitterMax: 7 * time.Second,
	}
}

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "careers" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for i, co := range s.cfg.Companies {
		if i > 0 {
			if err := util.Jitter(ctx, s.cfg.JitterMin, s.cfg.JitterMax); err != nil {
				return res, err
			}
		}
		jobs, blocked := s.searchCompany(ctx, co)
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Blocked = res.Blocked || blocked
		res.Jobs = append(res.Jobs, jobs...)
	}
	return res, nil
}

// searchCompany never returns an empty list: any failure yields placeholders.
func (s *Scraper) searchCompany(ctx context.Context, co Company) ([]domain.JobRecord, bool) {
	now := s.env.Clock()

	doc, err := s.env.HTTP.Document(ctx, co.URL, co.Params)
	var se *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrBlocked):
		log.Printf("[careers] company=%q blocked", co.Name)
		return catalog.ManualVerificationLeads(co.Name, co.URL, now), true
	case errors.As(err, &se):
		log.Printf("[careers] company=%q status=%d", co.Name, se.Code)
		return catalog.ManualVerificationLeads(co.Name, co.URL, now), false
	case err != nil:
		log.Printf("[careers] company=%q err=%v", co.Name, err)
		return catalog.ManualVerificationLeads(co.Name, co.URL, now), false
	}

	roles := s.env.Roles
	if len(roles) == 0 {
		roles = filter.NewRoles(nil)
	}
	jobs := ParsePage(doc, co, roles, now)
	if len(jobs) == 0 {
		log.Printf("[careers] company=%q no matching jobs", co.Name)
		return catalog.ManualVerificationLeads(co.Name, co.URL, now), false
	}
	log.Printf("[careers] company=%q found=%d", co.Name, len(jobs))
	return jobs, false
}

var classHints = []string{"job", "position", "role", "career"}

func looksLikeListing(sel *goquery.Selection) bool {
	class, ok := sel.Attr("class")
	if !ok {
		return false
	}
	class = strings.ToLower(class)
	for _, h := range classHints {
		if strings.Contains(class, h) {
			return true
		}
	}
	return false
}

// ParsePage looks at the first five div/li/a elements whose class hints at a
// listing and keeps those whose text names a target role.
func ParsePage(doc *goquery.Document, co Company, roles filter.Roles, now time.Time) []domain.JobRecord {
	candidates := doc.Find("div, li, a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return looksLikeListing(sel)
	})

	var out []domain.JobRecord
	candidates.Each(func(i int, el *goquery.Selection) {
		if i >= maxCandidates {
			return
		}
		text := util.CleanText(el.Text())
		if !roles.Match(text, "") {
			return
		}
		out = append(out, domain.JobRecord{
			Title:         util.Truncate(text, maxTitleRunes),
			Company:       co.Name,
			Location:      "USA (verification needed)",
			Description:   "Job found on " + co.Name + " career page. Manual verification required.",
			URL:           util.Or(co.URL, listingURL(el, co.Name)),
			Source:        co.Name + " Careers",
			PostingDate:   "Recent",
			ScrapedDate:   now.Format(time.RFC3339),
			SponsorsH1B:   domain.SponsorYes,
			Confidence:    domain.ConfidenceHigh,
			KeywordsFound: []string{catalog.KeywordKnownSponsor},
		})
	})
	return out
}

// listingURL takes the first nested link, or the element's own href when it
// is an anchor. Root-relative links are assumed to live on <company>.com.
func listingURL(el *goquery.Selection, company string) string {
	href, ok := el.Find("a").First().Attr("href")
	if !ok && goquery.NodeName(el) == "a" {
		href, ok = el.Attr("href")
	}
	if !ok {
		return ""
	}
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "/"):
		return "https://" + strings.ToLower(company) + ".com" + href
	}
	return ""
}

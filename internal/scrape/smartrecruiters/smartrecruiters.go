package smartrecruiters

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"
)

const (
	DefaultAPIURL = "https://api.smartrecruiters.com"
	jobsSite      = "https://jobs.smartrecruiters.com"
	pageLimit     = 100
	maxOffset     = 5000
)

type Config struct {
	APIURL    string
	Companies []Company
}

type Company struct {
	// Slug is the company identifier in jobs.smartrecruiters.com/<slug>.
	Slug string
	Name string
}

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "smartrecruiters" }

// { "content": [...], "totalFound": N, "offset": O, "limit": L }
type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
}

type posting struct {
	ID           string    `json:"id"`
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	ReleasedDate time.Time `json:"releasedDate"`
	Location     struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
}

type postingDetail struct {
	JobAd struct {
		Sections map[string]struct {
			Title string `json:"title"`
			Text  string `json:"text"` // html
		} `json:"sections"`
	} `json:"jobAd"`
}

// sections in display order
var sectionOrder = []string{"companyDescription", "jobDescription", "qualifications", "additionalInformation"}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	jobs := util.FanOut(ctx, s.cfg.Companies, 8, 30*time.Second, s.fetchCompany,
		func(co Company, err error) {
			log.Printf("[ats:smartrecruiters] company=%q slug=%q err=%v", co.Name, co.Slug, err)
		})
	log.Printf("[smartrecruiters] Processed: %d", len(jobs))
	return types.ScrapeResult{Source: s.Name(), Jobs: jobs}, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.JobRecord, error) {
	slug := strings.TrimSpace(co.Slug)
	if slug == "" {
		return nil, fmt.Errorf("empty slug")
	}
	base := fmt.Sprintf("%s/v1/companies/%s/postings", s.cfg.APIURL, url.PathEscape(slug))

	var out []domain.JobRecord
	for offset := 0; offset <= maxOffset; offset += pageLimit {
		var pr postingsResponse
		params := url.Values{"limit": {strconv.Itoa(pageLimit)}, "offset": {strconv.Itoa(offset)}}
		if err := s.env.HTTP.GetJSON(ctx, base, params, &pr); err != nil {
			return out, fmt.Errorf("smartrecruiters postings: %w", err)
		}
		if len(pr.Content) == 0 {
			break
		}

		for _, p := range pr.Content {
			id := util.Or("", p.ID, p.UUID)
			title := strings.TrimSpace(p.Name)
			if id == "" || title == "" || !s.env.MatchRole(title, "") {
				continue
			}
			j := toRecord(p, co, id, s.env.Clock())
			if d, err := s.description(ctx, base, id); err != nil {
				log.Printf("[ats:smartrecruiters] detail id=%s err=%v", id, err)
			} else {
				j.Description = d
			}
			if s.env.Accept(&j) {
				out = append(out, j)
			}
		}

		if pr.TotalFound > 0 && offset+pageLimit >= pr.TotalFound {
			break
		}
	}
	return out, nil
}

func (s *Scraper) description(ctx context.Context, base, id string) (string, error) {
	var d postingDetail
	if err := s.env.HTTP.GetJSON(ctx, base+"/"+url.PathEscape(id), nil, &d); err != nil {
		return "", err
	}
	var parts []string
	for _, key := range sectionOrder {
		sec, ok := d.JobAd.Sections[key]
		if !ok {
			continue
		}
		if t := util.DescriptionText(sec.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func toRecord(p posting, co Company, id string, now time.Time) domain.JobRecord {
	var locParts []string
	for _, v := range []string{p.Location.City, p.Location.Region, p.Location.Country} {
		if v = strings.TrimSpace(v); v != "" {
			locParts = append(locParts, v)
		}
	}
	loc := util.NormalizeLocation(strings.Join(locParts, ", "))
	if p.Location.Remote {
		loc = strings.TrimPrefix(loc+", Remote", ", ")
	}

	posted := "Unknown"
	if !p.ReleasedDate.IsZero() {
		posted = p.ReleasedDate.UTC().Format("2006-01-02")
	}

	return domain.JobRecord{
		Title:       strings.TrimSpace(p.Name),
		Company:     co.Name,
		Location:    util.Or("Unknown", loc),
		URL:         fmt.Sprintf("%s/%s/%s", jobsSite, co.Slug, id),
		Source:      "SmartRecruiters",
		PostingDate: posted,
		ScrapedDate: now.Format(time.RFC3339),
	}
}

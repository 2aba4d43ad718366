package lever

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"
)

const DefaultBaseURL = "https://api.lever.co"

type Config struct {
	BaseURL   string
	Companies []Company
}

type Company struct {
	Slug string // api.lever.co/v0/postings/<slug>
	Name string
}

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "lever" }

type posting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
	Description      string `json:"description"` // html
	DescriptionPlain string `json:"descriptionPlain"`
	Lists            []struct {
		Text    string `json:"text"`
		Content string `json:"content"` // html
	} `json:"lists"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	jobs := util.FanOut(ctx, s.cfg.Companies, 8, 15*time.Second, s.fetchCompany,
		func(co Company, err error) {
			log.Printf("[ats:lever] company=%q slug=%q err=%v", co.Name, co.Slug, err)
		})
	log.Printf("[lever] Processed: %d", len(jobs))
	return types.ScrapeResult{Source: s.Name(), Jobs: jobs}, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.JobRecord, error) {
	apiURL := fmt.Sprintf("%s/v0/postings/%s", s.cfg.BaseURL, url.PathEscape(co.Slug))

	var postings []posting
	if err := s.env.HTTP.GetJSON(ctx, apiURL, url.Values{"mode": {"json"}}, &postings); err != nil {
		return nil, fmt.Errorf("lever postings: %w", err)
	}

	var out []domain.JobRecord
	for _, p := range postings {
		j, ok := toRecord(p, co, s.env.Clock())
		if ok && s.env.Accept(&j) {
			out = append(out, j)
		}
	}
	return out, nil
}

func toRecord(p posting, co Company, now time.Time) (domain.JobRecord, bool) {
	title := strings.TrimSpace(p.Text)
	if p.ID == "" || p.HostedURL == "" || title == "" {
		return domain.JobRecord{}, false
	}

	posted := "Unknown"
	if p.CreatedAt > 0 {
		posted = time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02")
	}

	desc := util.DescriptionText(p.Description)
	if desc == "" {
		desc = util.CleanText(p.DescriptionPlain)
	}
	// requirement lists often carry the work-authorization line
	for _, l := range p.Lists {
		if c := util.DescriptionText(l.Content); c != "" {
			desc += "\n\n" + l.Text + "\n" + c
		}
	}

	return domain.JobRecord{
		Title:       title,
		Company:     co.Name,
		Location:    util.Or("Unknown", util.NormalizeLocation(p.Categories.Location)),
		Description: strings.TrimSpace(desc),
		URL:         p.HostedURL,
		Source:      "Lever",
		PostingDate: posted,
		ScrapedDate: now.Format(time.RFC3339),
	}, true
}

package greenhouse

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://boards.greenhouse.io"

type Config struct {
	BaseURL   string
	Companies []Company
}

type Company struct {
	Slug string // boards.greenhouse.io/<slug>
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

func (s *Scraper) Name() string { return "greenhouse" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	jobs := util.FanOut(ctx, s.cfg.Companies, 8, 45*time.Second, s.fetchCompany,
		func(co Company, err error) {
			log.Printf("[ats:greenhouse] company=%q slug=%q err=%v", co.Name, co.Slug, err)
		})
	log.Printf("[greenhouse] Processed: %d", len(jobs))
	return types.ScrapeResult{Source: s.Name(), Jobs: jobs}, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.JobRecord, error) {
	boardURL := fmt.Sprintf("%s/%s", s.cfg.BaseURL, co.Slug)
	doc, err := s.env.HTTP.Document(ctx, boardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse board: %w", err)
	}

	var out []domain.JobRecord
	for _, j := range ParseBoard(doc, s.cfg.BaseURL, co, s.env.Clock()) {
		// board titles are enough to skip unrelated roles before the page fetch
		if j.Title != "" && !s.env.MatchRole(j.Title, "") {
			continue
		}
		if err := s.hydrate(ctx, &j); err != nil {
			log.Printf("[ats:greenhouse] hydrate url=%s err=%v", j.URL, err)
		}
		if s.env.Accept(&j) {
			out = append(out, j)
		}
	}
	return out, nil
}

// ParseBoard collects job links (…/jobs/<id>) from a board page, one record
// per job id.
func ParseBoard(doc *goquery.Document, base string, co Company, now time.Time) []domain.JobRecord {
	seen := map[string]bool{}
	var out []domain.JobRecord

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := util.AbsURL(base, href)
		if !strings.Contains(strings.ToLower(abs), "/jobs/") {
			return
		}
		id := extractJobID(abs)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true

		title := util.CleanText(a.Text())
		if util.LooksLikeJunkTitle(title) {
			title = ""
		}
		out = append(out, domain.JobRecord{
			Title:       title,
			Company:     co.Name,
			Location:    util.NormalizeLocation(a.Parent().Find(".location").First().Text()),
			URL:         abs,
			Source:      "Greenhouse",
			PostingDate: "Unknown",
			ScrapedDate: now.Format(time.RFC3339),
		})
	})
	return out
}

// hydrate fills title, location and description from the job page.
func (s *Scraper) hydrate(ctx context.Context, j *domain.JobRecord) error {
	doc, err := s.env.HTTP.Document(ctx, j.URL, nil)
	if err != nil {
		return err
	}
	if j.Title == "" {
		j.Title = util.CleanText(doc.Find("h1").First().Text())
	}
	if j.Location == "" {
		j.Location = util.DocLocation(doc)
	}
	for _, sel := range []string{"#content", ".job__description", "#app_body"} {
		if d := util.SelectionText(doc.Find(sel).First()); d != "" {
			j.Description = d
			break
		}
	}
	return nil
}

func extractJobID(u string) string {
	parts := strings.SplitN(u, "/jobs/", 2)
	if len(parts) < 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range parts[1] {
		if r < '0' || r > '9' {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

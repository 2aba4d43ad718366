package indeed

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/filter"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseURL = "https://www.indeed.com/jobs"
	siteRoot       = "https://www.indeed.com"
	sourceName     = "Indeed"
)

type Config struct {
	BaseURL  string
	Queries  []string
	Location string
	MaxPages int

	PageDelay time.Duration
	// FullDescription fetches each posting page for the complete text.
	FullDescription bool
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Location:        "United States",
		MaxPages:        3,
		PageDelay:       2 * time.Second,
		FullDescription: true,
	}
}

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "indeed" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for _, q := range s.cfg.Queries {
	pages:
		for page := 0; page < s.cfg.MaxPages; page++ {
			params := url.Values{
				"q":       {q},
				"l":       {s.cfg.Location},
				"start":   {strconv.Itoa(page * 10)},
				"fromage": {"1"},
			}
			doc, err := s.env.HTTP.Document(ctx, s.cfg.BaseURL, params)
			switch {
			case errors.Is(err, fetch.ErrBlocked):
				log.Printf("[indeed] query=%q page=%d blocked", q, page)
				res.Blocked = true
				break pages
			case ctx.Err() != nil:
				return res, ctx.Err()
			case err != nil:
				log.Printf("[indeed] query=%q page=%d err=%v", q, page, err)
				continue
			}

			for _, j := range ParseCards(doc, s.cfg.BaseURL, s.env.Clock()) {
				if s.cfg.FullDescription && j.URL != "" {
					if d := s.fullDescription(ctx, j.URL); d != "" {
						j.Description = d
					}
				}
				if s.env.Accept(&j) {
					res.Jobs = append(res.Jobs, j)
				}
			}

			if err := util.Sleep(ctx, s.cfg.PageDelay); err != nil {
				return res, err
			}
		}
	}

	log.Printf("[indeed] Processed: %d", len(res.Jobs))
	return res, nil
}

func (s *Scraper) fullDescription(ctx context.Context, jobURL string) string {
	doc, err := s.env.HTTP.Document(ctx, jobURL, nil)
	if err != nil {
		log.Printf("[indeed] description url=%s err=%v", jobURL, err)
		return ""
	}
	return util.SelectionText(doc.Find("div.jobsearch-jobDescriptionText").First())
}

// ParseCards extracts postings from a search results page. Cards whose age
// label is not within 24 hours of now are dropped. base resolves relative
// links.
func ParseCards(doc *goquery.Document, base string, now time.Time) []domain.JobRecord {
	if base == "" {
		base = siteRoot
	}
	var out []domain.JobRecord
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		title := card.Find("h2.jobTitle").First()
		posted := util.Or("Unknown", util.FirstText(card, "span.date", `span[data-testid="job-age"]`))
		if !filter.IsWithin24Hours(posted, now) {
			return
		}

		j := domain.JobRecord{
			Title:       util.Or("Unknown", util.CleanText(title.Text())),
			Company:     util.Or("Unknown", util.FirstText(card, "span.companyName")),
			Location:    util.Or("Unknown", util.FirstText(card, "div.companyLocation")),
			Description: util.FirstText(card, "div.summary"),
			Source:      sourceName,
			PostingDate: posted,
			ScrapedDate: now.Format(time.RFC3339),
		}
		if href, ok := title.Find("a").First().Attr("href"); ok {
			j.URL = util.AbsURL(base, href)
		}
		out = append(out, j)
	})
	return out
}

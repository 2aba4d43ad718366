package glassdoor

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
	DefaultBaseURL = "https://www.glassdoor.com/Job/jobs.htm"
	siteRoot       = "https://www.glassdoor.com"
)

type Config struct {
	BaseURL   string
	Queries   []string
	Location  string
	MaxPages  int
	PageDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Location:  "United States",
		MaxPages:  2,
		PageDelay: 3 * time.Second, // stricter than indeed
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

func (s *Scraper) Name() string { return "glassdoor" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for _, q := range s.cfg.Queries {
		for page := 0; page < s.cfg.MaxPages; page++ {
			params := url.Values{
				"q":       {q},
				"l":       {s.cfg.Location},
				"p":       {strconv.Itoa(page + 1)},
				"fromAge": {"1"},
			}
			doc, err := s.env.HTTP.Document(ctx, s.cfg.BaseURL, params)
			if errors.Is(err, fetch.ErrBlocked) {
				log.Printf("[glassdoor] query=%q page=%d blocked", q, page)
				res.Blocked = true
				break
			}
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				log.Printf("[glassdoor] query=%q page=%d err=%v", q, page, err)
				continue
			}

			for _, j := range ParseCards(doc, s.cfg.BaseURL, s.env.Clock()) {
				if s.env.Accept(&j) {
					res.Jobs = append(res.Jobs, j)
				}
			}
			if err := util.Sleep(ctx, s.cfg.PageDelay); err != nil {
				return res, err
			}
		}
	}

	log.Printf("[glassdoor] Processed: %d", len(res.Jobs))
	return res, nil
}

// ParseCards reads react job listings, falling back to the older list-item
// markup. Only postings aged within 24 hours of now are returned.
func ParseCards(doc *goquery.Document, base string, now time.Time) []domain.JobRecord {
	if base == "" {
		base = siteRoot
	}
	cards := doc.Find("div.react-job-listing")
	if cards.Length() == 0 {
		cards = doc.Find(`li[data-test="jobListing"]`)
	}

	var out []domain.JobRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		posted := util.Or("Unknown", util.FirstText(card, `div[data-test="job-age"]`, "div.jobAge"))
		if !filter.IsWithin24Hours(posted, now) {
			return
		}
		titleSel := `a[data-test="job-title"]`
		if card.Find(titleSel).Length() == 0 {
			titleSel = "a.jobLink"
		}
		j := domain.JobRecord{
			Title:       util.Or("Unknown", util.FirstText(card, titleSel)),
			Company:     util.Or("Unknown", util.FirstText(card, `div[data-test="employer-name"]`, "div.employerName")),
			Location:    util.Or("Unknown", util.FirstText(card, `div[data-test="job-location"]`, "div.loc")),
			Description: util.FirstText(card, "div.jobDescriptionContent"),
			Source:      "Glassdoor",
			PostingDate: posted,
			ScrapedDate: now.Format(time.RFC3339),
		}
		if href := util.FirstAttr(card, "href", titleSel); href != "" {
			j.URL = util.AbsURL(base, href)
		}
		out = append(out, j)
	})
	return out
}

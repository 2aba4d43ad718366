package ziprecruiter

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseURL = "https://www.ziprecruiter.com/jobs-search"
	siteRoot       = "https://www.ziprecruiter.com"
)

type Config struct {
	BaseURL  string
	Queries  []string
	Location string
	MaxPages int

	// random pause before every request
	JitterMin, JitterMax time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Location:  "United States",
		MaxPages:  2,
		JitterMin: 3 * time.Second,
		JitterMax: 8 * time.Second,
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

func (s *Scraper) Name() string { return "ziprecruiter" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for _, q := range s.cfg.Queries {
		for page := 0; page < s.cfg.MaxPages; page++ {
			if err := util.Jitter(ctx, s.cfg.JitterMin, s.cfg.JitterMax); err != nil {
				return res, err
			}
			params := url.Values{
				"search":   {q},
				"location": {s.cfg.Location},
				"days":     {"1"},
				"page":     {strconv.Itoa(page + 1)},
			}
			doc, err := s.env.HTTP.Document(ctx, s.cfg.BaseURL, params)
			if errors.Is(err, fetch.ErrBlocked) {
				log.Printf("[ziprecruiter] query=%q page=%d blocked", q, page)
				res.Blocked = true
				break
			}
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				log.Printf("[ziprecruiter] query=%q page=%d err=%v", q, page, err)
				continue
			}

			jobs := ParseCards(doc, s.env.Clock())
			log.Printf("[ziprecruiter] query=%q page=%d cards=%d", q, page, len(jobs))
			for _, j := range jobs {
				if s.env.Accept(&j) {
					res.Jobs = append(res.Jobs, j)
				}
			}
		}
	}
	return res, nil
}

// ParseCards reads result cards. The site's search already limits to one
// day, so every card is labeled "Recent".
func ParseCards(doc *goquery.Document, now time.Time) []domain.JobRecord {
	cards := doc.Find("div.job_content")
	if cards.Length() == 0 {
		cards = doc.Find("article.job_result")
	}

	var out []domain.JobRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		title := card.Find("h2").First()
		if title.Length() == 0 {
			title = card.Find("a.job_link").First()
		}

		href := util.FirstAttr(card, "href", "a.job_link")
		if href == "" {
			href, _ = title.Find("a").First().Attr("href")
		}

		out = append(out, domain.JobRecord{
			Title:       util.Or("Unknown", util.CleanText(title.Text())),
			Company:     util.Or("Unknown", util.FirstText(card, "a.company_name", "span.company")),
			Location:    util.Or("Unknown", util.FirstText(card, "span.location")),
			Description: util.FirstText(card, "p.job_snippet", "div.job_description"),
			URL:         util.AbsURL(siteRoot, href),
			Source:      "ZipRecruiter",
			PostingDate: "Recent",
			ScrapedDate: now.Format(time.RFC3339),
		})
	})
	return out
}

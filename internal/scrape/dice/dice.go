package dice

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
	DefaultBaseURL = "https://www.dice.com/jobs"
	siteRoot       = "https://www.dice.com"
)

type Config struct {
	BaseURL  string
	Queries  []string
	Location string
	MaxPages int

	JitterMin, JitterMax time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Location:  "United States",
		MaxPages:  2,
		JitterMin: 4 * time.Second,
		JitterMax: 9 * time.Second,
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

func (s *Scraper) Name() string { return "dice" }

func searchParams(query, location string, page int) url.Values {
	return url.Values{
		"q":                  {query},
		"location":           {location},
		"radius":             {"30"},
		"radiusUnit":         {"mi"},
		"page":               {strconv.Itoa(page + 1)},
		"pageSize":           {"20"},
		"filters.postedDate": {"ONE"},
	}
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for _, q := range s.cfg.Queries {
		for page := 0; page < s.cfg.MaxPages; page++ {
			if err := util.Jitter(ctx, s.cfg.JitterMin, s.cfg.JitterMax); err != nil {
				return res, err
			}
			doc, err := s.env.HTTP.Document(ctx, s.cfg.BaseURL, searchParams(q, s.cfg.Location, page))
			if errors.Is(err, fetch.ErrBlocked) {
				log.Printf("[dice] query=%q page=%d blocked", q, page)
				res.Blocked = true
				break
			}
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				log.Printf("[dice] query=%q page=%d err=%v", q, page, err)
				continue
			}

			jobs := ParseCards(doc, s.env.Clock())
			log.Printf("[dice] query=%q page=%d cards=%d", q, page, len(jobs))
			for _, j := range jobs {
				if s.env.Accept(&j) {
					res.Jobs = append(res.Jobs, j)
				}
			}
		}
	}
	return res, nil
}

func ParseCards(doc *goquery.Document, now time.Time) []domain.JobRecord {
	cards := doc.Find("div.card-body")
	if cards.Length() == 0 {
		cards = doc.Find(`div[data-testid="job-card"]`)
	}

	var out []domain.JobRecord
	cards.Each(func(_ int, card *goquery.Selection) {
		title := card.Find("h5").First()
		if title.Length() == 0 {
			title = card.Find(`a[data-testid="job-title"]`).First()
		}
		href := util.FirstAttr(card, "href", `a[data-testid="job-title"]`)
		if href == "" {
			href, _ = title.Find("a").First().Attr("href")
		}

		out = append(out, domain.JobRecord{
			Title:       util.Or("Unknown", util.CleanText(title.Text())),
			Company:     util.Or("Unknown", util.FirstText(card, "span.employer-name", "a.employer")),
			Location:    util.Or("Unknown", util.FirstText(card, "span.location")),
			Description: util.FirstText(card, "div.job-description"),
			URL:         util.AbsURL(siteRoot, href),
			Source:      "Dice",
			PostingDate: "Recent",
			ScrapedDate: now.Format(time.RFC3339),
		})
	})
	return out
}

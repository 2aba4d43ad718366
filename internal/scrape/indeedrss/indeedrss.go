package indeedrss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
)

const (
	feedBase        = "https://rss.indeed.com/rss"
	entriesPerFeed  = 10
	maxEntryAge     = 24 * time.Hour
	defaultLocation = "Various"
)

var DefaultTerms = []string{
	"devops engineer",
	"site reliability engineer",
	"infrastructure engineer",
	"platform engineer",
	"cloud engineer",
}

// FeedURL builds the date-sorted feed for a search term.
func FeedURL(term string) string {
	return fmt.Sprintf("%s?q=%s&l=&sort=date", feedBase, url.QueryEscape(term))
}

type Config struct {
	Feeds []string

	JitterMin, JitterMax time.Duration
}

func DefaultConfig() Config {
	feeds := make([]string, 0, len(DefaultTerms))
	for _, t := range DefaultTerms {
		feeds = append(feeds, FeedURL(t))
	}
	return Config{
		Feeds:     feeds,
		JitterMin: 2 * time.Second,
		JitterMax: 5 * time.Second,
	}
}

// ErrNotRSS is returned by ParseFeed for documents that are not an RSS feed.
var ErrNotRSS = errors.New("not an rss feed")

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "indeed-rss" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for _, feed := range s.cfg.Feeds {
		body, err := s.env.HTTP.Get(ctx, feed, nil)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Printf("[indeed-rss] feed=%s err=%v", feed, err)
		} else {
			jobs, err := ParseFeed(body, s.env.Clock())
			if err != nil {
				log.Printf("[indeed-rss] feed=%s parse err=%v", feed, err)
			}
			for _, j := range jobs {
				if s.env.Accept(&j) {
					res.Jobs = append(res.Jobs, j)
				}
			}
		}
		if err := util.Jitter(ctx, s.cfg.JitterMin, s.cfg.JitterMax); err != nil {
			return res, err
		}
	}

	log.Printf("[indeed-rss] Processed: %d", len(res.Jobs))
	return res, nil
}

// ParseFeed converts the first ten items of an RSS document. Items older
// than 24 hours are skipped; items without a usable date are kept.
func ParseFeed(body []byte, now time.Time) ([]domain.JobRecord, error) {
	if gofeed.DetectFeedType(bytes.NewReader(body)) != gofeed.FeedTypeRSS {
		return nil, ErrNotRSS
	}
	feed, err := (&rss.Parser{}).Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode rss: %w", err)
	}

	items := feed.Items
	if len(items) > entriesPerFeed {
		items = items[:entriesPerFeed]
	}

	var out []domain.JobRecord
	for _, it := range items {
		posted := "Unknown"
		if pub := it.PubDateParsed; pub != nil {
			if now.Sub(*pub) > maxEntryAge {
				continue
			}
			posted = util.AgeLabel(*pub, now)
		}
		company := ""
		if it.Source != nil {
			company = it.Source.Title
		}
		out = append(out, domain.JobRecord{
			Title:       util.CleanText(it.Title),
			Company:     util.Or("Unknown", util.CleanText(company)),
			Location:    defaultLocation,
			Description: util.DescriptionText(it.Description),
			URL:         strings.TrimSpace(it.Link),
			Source:      "Indeed RSS",
			PostingDate: posted,
			ScrapedDate: now.Format(time.RFC3339),
		})
	}
	return out, nil
}

// Package workday reads public Workday career sites through the JSON API
// their own pages call (/wday/cxs/<tenant>/<site>/jobs).
package workday

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/fetch"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"
)

const (
	pageLimit = 20
	maxOffset = 2000
	csrfName  = "CALYPSO_CSRF_TOKEN"
)

type Config struct {
	Companies []Company
	// SearchText is sent as the board's own keyword search.
	SearchText string
}

type Company struct {
	// BoardURL is the public site, e.g.
	// https://nvidia.wd5.myworkdayjobs.com/en-US/NVIDIAExternalCareerSite
	BoardURL string
	Name     string
}

type Scraper struct {
	cfg Config
	env types.Env

	mu      sync.Mutex
	blocked map[string]bool
}

func New(cfg Config, env types.Env) *Scraper {
	return &Scraper{cfg: cfg, env: env, blocked: map[string]bool{}}
}

func (s *Scraper) Name() string { return "workday" }

type board struct {
	Scheme string
	Host   string
	Tenant string
	Site   string
	Locale string
}

type jobsRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type jobsResponse struct {
	Total       int       `json:"total"`
	JobPostings []posting `json:"jobPostings"`
}

type posting struct {
	Title         string `json:"title"`
	ExternalPath  string `json:"externalPath"`
	LocationsText string `json:"locationsText"`
	PostedOn      string `json:"postedOn"` // "Posted 3 Days Ago"
}

type detailResponse struct {
	JobPostingInfo struct {
		JobDescription string `json:"jobDescription"` // html
		Location       string `json:"location"`
		ExternalURL    string `json:"externalUrl"`
	} `json:"jobPostingInfo"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	var blocked atomic.Bool
	jobs := util.FanOut(ctx, s.cfg.Companies, 4, 90*time.Second, s.fetchCompany,
		func(co Company, err error) {
			if errors.Is(err, fetch.ErrBlocked) {
				blocked.Store(true)
			}
			log.Printf("[ats:workday] company=%q board=%q err=%v", co.Name, co.BoardURL, err)
		})
	log.Printf("[workday] Processed: %d", len(jobs))
	return types.ScrapeResult{Source: s.Name(), Jobs: jobs, Blocked: blocked.Load()}, nil
}

func (s *Scraper) isBlocked(host string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked[host]
}

func (s *Scraper) markBlocked(host string) {
	s.mu.Lock()
	s.blocked[host] = true
	s.mu.Unlock()
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.JobRecord, error) {
	b, err := parseBoardURL(co.BoardURL)
	if err != nil {
		return nil, err
	}
	if s.isBlocked(b.Host) {
		return nil, fetch.ErrBlocked
	}

	// Cookies from the board page must accompany the API calls.
	sess := s.env.HTTP.Session()
	csrf, err := bootstrap(ctx, sess, co.BoardURL)
	if errors.Is(err, fetch.ErrBlocked) {
		s.markBlocked(b.Host)
		return nil, err
	}
	if err != nil {
		log.Printf("[ats:workday] bootstrap company=%q err=%v", co.Name, err)
	}

	headers := map[string]string{
		"Origin":          b.origin(),
		"Referer":         strings.TrimRight(co.BoardURL, "/"),
		"Accept-Language": util.Or("en-US", b.Locale),
	}
	if csrf != "" {
		headers["X-Calypso-Csrf-Token"] = csrf
	}

	var out []domain.JobRecord
	for offset := 0; offset <= maxOffset; offset += pageLimit {
		var jr jobsResponse
		req := jobsRequest{AppliedFacets: map[string]any{}, Limit: pageLimit, Offset: offset, SearchText: s.cfg.SearchText}
		if err := sess.PostJSON(ctx, b.jobsEndpoint(), headers, req, &jr); err != nil {
			if errors.Is(err, fetch.ErrBlocked) {
				s.markBlocked(b.Host)
			}
			return out, fmt.Errorf("workday jobs: %w", err)
		}
		if len(jr.JobPostings) == 0 {
			break
		}

		for _, p := range jr.JobPostings {
			title := strings.TrimSpace(p.Title)
			if title == "" || p.ExternalPath == "" || !s.env.MatchRole(title, "") {
				continue
			}
			j := toRecord(p, b, co.Name, s.env.Clock())
			var d detailResponse
			if err := sess.GetJSON(ctx, b.detailEndpoint(p.ExternalPath), nil, &d); err != nil {
				log.Printf("[ats:workday] detail path=%s err=%v", p.ExternalPath, err)
			} else {
				j.Description = util.DescriptionText(d.JobPostingInfo.JobDescription)
				if u := strings.TrimSpace(d.JobPostingInfo.ExternalURL); u != "" {
					j.URL = u
				}
				if loc := util.NormalizeLocation(d.JobPostingInfo.Location); loc != "" && j.Location == "Unknown" {
					j.Location = loc
				}
			}
			if s.env.Accept(&j) {
				out = append(out, j)
			}
		}

		if jr.Total > 0 && offset+pageLimit >= jr.Total {
			break
		}
	}
	return out, nil
}

// bootstrap loads the board page so the session picks up the CSRF cookie.
// Some tenants never set one; the API still answers without it.
func bootstrap(ctx context.Context, sess *fetch.Client, boardURL string) (string, error) {
	body, err := sess.Get(ctx, boardURL, nil)
	if err != nil {
		return "", err
	}
	if looksLikeChallenge(body) {
		return "", fetch.ErrBlocked
	}
	if tok := sess.Cookie(boardURL, csrfName); tok != "" {
		return tok, nil
	}
	return "", fmt.Errorf("no %s cookie", csrfName)
}

func looksLikeChallenge(body []byte) bool {
	n := min(len(body), 4096)
	low := strings.ToLower(string(body[:n]))
	return strings.Contains(low, "/cdn-cgi/challenge") ||
		(strings.Contains(low, "cloudflare") && strings.Contains(low, "checking your browser")) ||
		(strings.Contains(low, "attention required") && strings.Contains(low, "cloudflare"))
}

func toRecord(p posting, b board, company string, now time.Time) domain.JobRecord {
	return domain.JobRecord{
		Title:       strings.TrimSpace(p.Title),
		Company:     company,
		Location:    util.Or("Unknown", util.NormalizeLocation(p.LocationsText)),
		URL:         b.jobURL(p.ExternalPath),
		Source:      "Workday",
		PostingDate: PostedLabel(p.PostedOn),
		ScrapedDate: now.Format(time.RFC3339),
	}
}

// PostedLabel turns "Posted 3 Days Ago" into "3 Days Ago", which the
// recency filter reads like any board's label.
func PostedLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Unknown"
	}
	if len(s) > 7 && strings.EqualFold(s[:7], "posted ") {
		s = s[7:]
	}
	return s
}

func parseBoardURL(raw string) (board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return board{}, errors.New("empty board url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return board{}, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return board{}, fmt.Errorf("missing host in %q", raw)
	}
	parts := strings.Split(u.Host, ".")
	if len(parts) < 3 {
		return board{}, fmt.Errorf("unexpected host %q", u.Host)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return board{}, fmt.Errorf("unexpected path %q", u.Path)
	}
	b := board{Scheme: u.Scheme, Host: u.Host, Tenant: parts[0]}
	if len(segs) >= 2 && isLocale(segs[0]) {
		b.Locale = strings.ToLower(segs[0][:2]) + "-" + strings.ToUpper(segs[0][3:])
		segs = segs[1:]
	}
	b.Site = segs[len(segs)-1]
	return b, nil
}

// isLocale accepts en-US, en-us and the like.
func isLocale(s string) bool {
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	for _, c := range s[:2] + s[3:] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func (b board) origin() string { return b.Scheme + "://" + b.Host }

func (b board) apiBase() string {
	return fmt.Sprintf("%s/wday/cxs/%s/%s", b.origin(), b.Tenant, b.Site)
}

func (b board) jobsEndpoint() string { return b.apiBase() + "/jobs" }

// externalPath looks like /job/Santa-Clara-CA/SRE_JR123.
func (b board) detailEndpoint(path string) string {
	return b.apiBase() + "/" + strings.TrimLeft(path, "/")
}

func (b board) jobURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	site := b.Site
	if b.Locale != "" {
		site = b.Locale + "/" + site
	}
	return fmt.Sprintf("%s/%s/%s", b.origin(), site, strings.TrimLeft(path, "/"))
}

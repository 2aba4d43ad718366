// Package myvisajobs reads the yearly visa-sponsor report and turns employers
// into search leads. When the report is unreachable it falls back to the
// catalog snapshot.
package myvisajobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"h1bhunt-engine/internal/catalog"
	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultReportURL = "https://www.myvisajobs.com/Reports/2024-H1B-Visa-Sponsor.aspx"
	maxRows          = 50
	sourceName       = "MyVisaJobs H1B Database"
)

var DefaultJobTitles = []string{
	"DevOps Engineer",
	"Site Reliability Engineer",
	"Infrastructure Engineer",
	"Platform Engineer",
	"Cloud Engineer",
	"Systems Engineer",
}

// ErrNoTable is returned by ParseEmployers when the page has no report table.
var ErrNoTable = errors.New("employer table not found")

type Config struct {
	ReportURL string
	JobTitles []string
	MinSalary int
	// MaxTitles caps how many JobTitles are searched per run.
	MaxTitles  int
	TitleDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		ReportURL:  DefaultReportURL,
		JobTitles:  DefaultJobTitles,
		MinSalary:  80000,
		MaxTitles:  3,
		TitleDelay: 2 * time.Second,
	}
}

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	if cfg.ReportURL == "" {
		cfg.ReportURL = DefaultReportURL
	}
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "myvisajobs" }

func (s *Scraper) titles() []string {
	t := s.cfg.JobTitles
	if s.cfg.MaxTitles > 0 && len(t) > s.cfg.MaxTitles {
		t = t[:s.cfg.MaxTitles]
	}
	return t
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}

	for i, title := range s.titles() {
		if i > 0 {
			if err := util.Sleep(ctx, s.cfg.TitleDelay); err != nil {
				return res, err
			}
		}
		employers, live := s.SearchEmployers(ctx, title)
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		log.Printf("[myvisajobs] title=%q employers=%d live=%t", title, len(employers), live)
		res.Jobs = append(res.Jobs, CreateJobEntries(employers, title, s.env.Clock())...)
	}
	return res, nil
}

// SearchEmployers returns report employers meeting the salary floor. live is
// false when the fallback snapshot was used.
func (s *Scraper) SearchEmployers(ctx context.Context, jobTitle string) ([]domain.Employer, bool) {
	doc, err := s.env.HTTP.Document(ctx, s.cfg.ReportURL, nil)
	if err != nil {
		log.Printf("[myvisajobs] report err=%v, using fallback list", err)
		return catalog.FallbackEmployers(jobTitle, s.cfg.MinSalary), false
	}
	employers, err := ParseEmployers(doc, jobTitle, s.cfg.MinSalary)
	if err != nil {
		log.Printf("[myvisajobs] %v, using fallback list", err)
		return catalog.FallbackEmployers(jobTitle, s.cfg.MinSalary), false
	}
	return employers, true
}

// ParseEmployers reads the first report table: rows after the header, at
// most fifty, employer/count/salary in columns 1-3.
func ParseEmployers(doc *goquery.Document, jobTitle string, minSalary int) ([]domain.Employer, error) {
	table := doc.Find("table.tbl").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	rows := table.Find("tr")
	var out []domain.Employer
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 || i > maxRows {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		e := domain.Employer{
			Company:   util.CleanText(cells.Eq(1).Text()),
			H1BCount:  util.CleanText(cells.Eq(2).Text()),
			AvgSalary: util.CleanText(cells.Eq(3).Text()),
		}
		if e.SalaryUSD() < minSalary {
			return
		}
		e.JobSearchURL = catalog.JobSearchURL(e.Company, jobTitle)
		out = append(out, e)
	})
	return out, nil
}

// SizeAdvantage describes what a sponsor's filing volume means for an
// applicant.
func SizeAdvantage(h1bCount string) string {
	n, ok := domain.Employer{H1BCount: h1bCount}.FilingCount()
	switch {
	case !ok:
		return "Company actively sponsors H1B visas"
	case n > 1000:
		return "Large Company: Established H1B process, higher volume but more competition"
	case n > 100:
		return "Medium Company: Good H1B support, less competition than big tech"
	case n > 20:
		return "Small-Medium Company: Growing team, often faster H1B processing"
	default:
		return "Small Company: Selective H1B sponsorship, good for specialized skills"
	}
}

// CreateJobEntries turns employers into search leads for jobTitle.
func CreateJobEntries(employers []domain.Employer, jobTitle string, now time.Time) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(employers))
	for _, e := range employers {
		company := util.StripCompanySuffix(e.Company)
		out = append(out, domain.JobRecord{
			Title:           jobTitle + " - " + company,
			Company:         company,
			Location:        "Multiple US Locations",
			Description:     entryDescription(company, jobTitle, e),
			URL:             e.JobSearchURL,
			Source:          sourceName,
			PostingDate:     "Check company website",
			ScrapedDate:     now.Format(time.RFC3339),
			SponsorsH1B:     domain.SponsorYes,
			Confidence:      domain.ConfidenceHigh,
			KeywordsFound:   []string{catalog.KeywordConfirmedSponsor},
			H1BApplications: util.Or("N/A", e.H1BCount),
			AvgH1BSalary:    util.Or("N/A", e.AvgSalary),
		})
	}
	return out
}

func entryDescription(company, jobTitle string, e domain.Employer) string {
	return fmt.Sprintf(`%[1]s - Confirmed H1B Sponsor

H1B Statistics (2024 Data):
• Total H1B Applications: %[3]s
• Average Salary: %[4]s

This company has a proven track record of sponsoring H1B visas for %[2]s and similar technical roles.

How to Apply:
1. Search for current openings: %[5]s
2. Visit company careers page directly
3. Look for: DevOps, SRE, Infrastructure, Platform, Cloud Engineer roles
4. Apply within 24 hours of posting for best results
5. Mention H1B sponsorship requirement in application

Tips for Success:
• Highlight cloud experience (AWS/GCP/Azure)
• Show Infrastructure as Code skills (Terraform, Ansible)
• Emphasize container/Kubernetes experience
• Demonstrate CI/CD pipeline expertise
• Include any US education or experience

Company Size Advantage:
%[6]s`,
		company, jobTitle,
		util.Or("N/A", e.H1BCount), util.Or("N/A", e.AvgSalary),
		e.JobSearchURL, SizeAdvantage(util.Or("0", e.H1BCount)))
}

// Package email reads LinkedIn job-alert e-mails from an IMAP mailbox and
// turns their job cards into records. LinkedIn itself is not scraped.
package email

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"h1bhunt-engine/internal/domain"
	"h1bhunt-engine/internal/scrape/types"
	"h1bhunt-engine/internal/scrape/util"

	"github.com/emersion/go-imap/v2"
)

const Source = "LinkedIn Alert"

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Mailbox  string

	// SubjectAny limits processing to messages whose subject contains one
	// of these terms. Empty means every unseen message.
	SubjectAny  []string
	MaxMessages int
	// Lookback bounds the IMAP SINCE search.
	Lookback time.Duration
}

type Scraper struct {
	cfg Config
	env types.Env
}

func New(cfg Config, env types.Env) *Scraper {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 200
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 7 * 24 * time.Hour
	}
	return &Scraper{cfg: cfg, env: env}
}

func (s *Scraper) Name() string { return "email" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: s.Name()}
	if s.cfg.Host == "" || s.cfg.Username == "" {
		return res, errors.New("email source needs host and username")
	}

	c, err := Dial(ctx, hostPort(s.cfg.Host, s.cfg.Port), s.cfg.Username, s.cfg.Password)
	if err != nil {
		return res, err
	}
	defer logout(c)

	if _, err := c.Select(s.cfg.Mailbox, nil).Wait(); err != nil {
		return res, fmt.Errorf("imap select %q: %w", s.cfg.Mailbox, err)
	}

	now := s.env.Clock()
	msgs, err := FetchUnseen(ctx, c, s.cfg.MaxMessages, now.Add(-s.cfg.Lookback))
	if err != nil {
		return res, err
	}

	var done []imap.UID
	for _, m := range msgs {
		jobs, matched := s.jobsFromMessage(m, now)
		if !matched {
			continue
		}
		res.Jobs = append(res.Jobs, jobs...)
		done = append(done, m.UID)
	}
	log.Printf("[email] messages=%d alerts=%d jobs=%d", len(msgs), len(done), len(res.Jobs))

	// only alerts are flagged; everything else stays unread for the user
	if err := MarkSeen(c, done); err != nil {
		return res, err
	}
	return res, nil
}

// jobsFromMessage reports matched=false for messages that are not
// LinkedIn alerts for the configured subjects.
func (s *Scraper) jobsFromMessage(m Message, now time.Time) ([]domain.JobRecord, bool) {
	d := Decode(m.Raw, m.Subject)
	if len(s.cfg.SubjectAny) > 0 && !containsFold(d.Subject, s.cfg.SubjectAny) {
		return nil, false
	}
	from := m.From
	if from == "" {
		from = d.From
	}
	if !IsLinkedInAlert(from, d.Subject, d.HTML+d.Text) {
		return nil, false
	}

	postings, err := ParseLinkedInAlert(d.HTML)
	if err != nil {
		log.Printf("[email] parse uid=%d err=%v", m.UID, err)
		return nil, true
	}

	received := m.Date
	if received.IsZero() {
		received = now
	}

	var out []domain.JobRecord
	for _, p := range postings {
		j := toRecord(p, d.Subject, received, now)
		if s.env.Accept(&j) {
			out = append(out, j)
		}
	}
	return out, true
}

func toRecord(p Posting, subject string, received, now time.Time) domain.JobRecord {
	desc := []string{subject}
	if p.Company != "" || p.Location != "" {
		desc = append(desc, p.Company+" · "+p.Location)
	}
	if p.Salary != "" {
		desc = append(desc, p.Salary)
	}
	return domain.JobRecord{
		Title:       p.Title,
		Company:     orUnknown(p.Company),
		Location:    orUnknown(p.Location),
		Description: strings.Join(desc, "\n"),
		URL:         p.URL,
		Source:      Source,
		PostingDate: util.AgeLabel(received, now),
		ScrapedDate: now.Format(time.RFC3339),
	}
}

func containsFold(s string, terms []string) bool {
	ls := strings.ToLower(s)
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" && strings.Contains(ls, t) {
			return true
		}
	}
	return false
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

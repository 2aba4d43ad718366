package email

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"h1bhunt-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

// Posting is one job card from a LinkedIn alert e-mail.
type Posting struct {
	JobID    string
	Title    string
	Company  string
	Location string
	Salary   string
	URL      string
}

var (
	reSalary = regexp.MustCompile(`\$\s?\d[\d,.]*[KkMm]?(?:\s*-\s*\$\s?\d[\d,.]*[KkMm]?)?\s*/\s*(?:yr|year|hr|hour)`)
	reJobID  = regexp.MustCompile(`/jobs/view/(\d+)`)
)

// IsLinkedInAlert reports whether a message is a LinkedIn job alert. A
// subject hit alone is not enough: the body must carry a job link too.
func IsLinkedInAlert(from, subject, body string) bool {
	if strings.Contains(strings.ToLower(from), "jobalerts-noreply") {
		return true
	}
	s := strings.ToLower(subject)
	if !strings.Contains(s, "job alert") && !strings.Contains(s, "linkedin") {
		return false
	}
	return strings.Contains(strings.ToLower(body), "linkedin.com/comm/jobs/view") ||
		strings.Contains(strings.ToLower(body), "linkedin.com/jobs/view")
}

// ParseLinkedInAlert groups every anchor that points at the same job id and
// keeps the best title seen across them. The logo anchor usually comes first
// and has no text.
func ParseLinkedInAlert(html string) ([]Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	byKey := map[string]*Posting{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		jobURL := unwrapRedirect(strings.TrimSpace(href))
		low := strings.ToLower(jobURL)
		if !strings.Contains(low, "linkedin.com") || !strings.Contains(low, "/jobs/view/") {
			return
		}

		id := ""
		if m := reJobID.FindStringSubmatch(jobURL); m != nil {
			id = m[1]
		}
		key := util.Or(jobURL, id)
		p, ok := byKey[key]
		if !ok {
			p = &Posting{JobID: id, URL: jobURL}
			if id != "" {
				p.URL = "https://www.linkedin.com/jobs/view/" + id
			}
			byKey[key] = p
			order = append(order, key)
		}

		if t := cleanTitle(a.Text()); betterTitle(t, p.Title) {
			p.Title = t
		}

		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Parent()
		}
		card.Find("p").Each(func(_ int, el *goquery.Selection) {
			t := util.CleanText(el.Text())
			if p.Company == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				p.Company = strings.TrimSpace(parts[0])
				p.Location = util.NormalizeLocation(parts[1])
				return
			}
			if t2 := cleanTitle(t); betterTitle(t2, p.Title) {
				p.Title = t2
			}
		})
		if p.Salary == "" {
			p.Salary = strings.TrimSpace(reSalary.FindString(util.CleanText(card.Text())))
		}
	})

	out := make([]Posting, 0, len(order))
	for _, k := range order {
		if p := byKey[k]; p.Title != "" {
			out = append(out, *p)
		}
	}
	return out, nil
}

func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	for _, key := range []string{"url", "q"} {
		if raw := u.Query().Get(key); raw != "" {
			if inner, err := url.Parse(raw); err == nil && inner.Host != "" {
				return inner.String()
			}
		}
	}
	return u.String()
}

var titleNoise = []string{"Actively recruiting", "Easy Apply", "Promoted"}

func cleanTitle(s string) string {
	s = util.CleanText(s)
	for _, n := range titleNoise {
		s = strings.ReplaceAll(s, n, "")
	}
	s = util.CleanText(s)
	low := strings.ToLower(s)
	for _, bad := range []string{"alumni", "connections", "applicants", "school"} {
		if strings.Contains(low, bad) {
			return ""
		}
	}
	return s
}

// betterTitle only replaces a title with a clearly higher scoring one so
// that card fragments do not flip-flop.
func betterTitle(candidate, current string) bool {
	if candidate == "" || strings.Contains(candidate, " · ") {
		return false
	}
	if current == "" {
		return titleScore(candidate) >= 5
	}
	return titleScore(candidate) >= titleScore(current)+3
}

var (
	titleWords = []string{
		"engineer", "developer", "devops", "sre", "reliability", "platform", "cloud",
		"infrastructure", "architect", "administrator", "security", "data", "software",
	}
	seniorityWords = []string{"sr", "senior", "staff", "principal", "lead", "ii", "iii"}
	ctaWords       = []string{"apply", "view job", "see job", "see all", "learn more", "sign in", "unsubscribe"}
)

func titleScore(s string) int {
	l := strings.ToLower(s)
	if strings.Contains(l, "http") || strings.Contains(l, "www.") {
		return -30
	}

	score := 0
	for _, w := range titleWords {
		if strings.Contains(l, w) {
			score += 4
			break
		}
	}
	words := strings.FieldsFunc(l, func(r rune) bool { return r == ' ' || r == ',' || r == '/' || r == '(' || r == ')' })
	sort.Strings(words)
	for _, w := range seniorityWords {
		if i := sort.SearchStrings(words, w); i < len(words) && words[i] == w {
			score += 2
		}
	}
	for _, w := range ctaWords {
		if strings.Contains(l, w) {
			score -= 6
		}
	}
	if reSalary.MatchString(s) || strings.ContainsAny(s, "$€£") {
		score -= 8
	}
	if strings.HasSuffix(s, ".") {
		score -= 4
	}

	switch n := len([]rune(s)); {
	case n >= 6 && n <= 80:
		score += 2
	case n < 4 || n > 140:
		score -= 6
	}
	return score
}

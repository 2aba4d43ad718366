package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}

func trimCompanies(cs []Company) []Company {
	out := make([]Company, 0, len(cs))
	for _, c := range cs {
		c.Slug = strings.TrimSpace(c.Slug)
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			c.Name = c.Slug
		}
		out = append(out, c)
	}
	return out
}

// NormalizeAndValidate returns a normalized copy of cfg plus any problems.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Search.Queries = trimList(out.Search.Queries)
	out.Search.TargetRoles = trimList(out.Search.TargetRoles)
	out.Classifier.Negative = trimList(out.Classifier.Negative)
	out.Classifier.Positive = trimList(out.Classifier.Positive)
	out.Classifier.Strong = trimList(out.Classifier.Strong)
	out.Filters.LocationsBlock = trimList(out.Filters.LocationsBlock)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)
	out.Sources.Greenhouse.Companies = trimCompanies(out.Sources.Greenhouse.Companies)
	out.Sources.Lever.Companies = trimCompanies(out.Sources.Lever.Companies)
	out.Sources.SmartRecruiters.Companies = trimCompanies(out.Sources.SmartRecruiters.Companies)
	out.Sources.Workday.Companies = trimCompanies(out.Sources.Workday.Companies)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if strings.TrimSpace(out.App.DataDir) == "" {
		res.addErr("app.data_dir is required")
	}
	if strings.TrimSpace(out.App.OutputDir) == "" {
		res.addErr("app.output_dir is required")
	}

	if out.Polling.ScrapeMinutes <= 0 {
		res.addErr("polling.scrape_minutes must be > 0")
	} else if out.Polling.ScrapeMinutes < 30 {
		res.addWarn("polling.scrape_minutes is very low (%d); job boards will start blocking requests.", out.Polling.ScrapeMinutes)
	}
	if out.Polling.SourceTimeoutSeconds <= 0 {
		res.addErr("polling.source_timeout_seconds must be > 0")
	}
	if out.Polling.HTTPTimeoutSeconds <= 0 {
		res.addErr("polling.http_timeout_seconds must be > 0")
	}
	if out.Polling.RequestsPerSecond < 0 {
		res.addErr("polling.requests_per_second must be >= 0")
	} else if out.Polling.RequestsPerSecond > 5 {
		res.addWarn("polling.requests_per_second=%.1f is aggressive for job boards.", out.Polling.RequestsPerSecond)
	}

	if out.Filters.RetentionDays < 0 {
		res.addErr("filters.retention_days must be >= 0")
	}

	boards := map[string]BoardSource{
		"indeed":       out.Sources.Indeed,
		"glassdoor":    out.Sources.Glassdoor,
		"ziprecruiter": out.Sources.ZipRecruiter,
		"dice":         out.Sources.Dice,
	}
	for name, b := range boards {
		if b.MaxPages < 0 {
			res.addErr("sources.%s.max_pages must be >= 0", name)
		}
		if b.Enabled && b.MaxPages == 0 {
			res.addWarn("sources.%s is enabled with max_pages=0 and will fetch nothing.", name)
		}
	}
	if (out.Sources.Indeed.Enabled || out.Sources.Glassdoor.Enabled) && len(out.Search.Queries) == 0 {
		res.addErr("search.queries must have at least 1 entry when indeed or glassdoor is enabled")
	}

	for i, p := range out.Sources.Careers.Companies {
		if strings.TrimSpace(p.Name) == "" {
			res.addErr("sources.careers.companies[%d].name is required", i)
		}
		if u, err := url.Parse(p.URL); err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("sources.careers.companies[%d].url must be an absolute URL", i)
		}
	}

	if out.Sources.MyVisaJobs.MinSalary < 0 {
		res.addErr("sources.myvisajobs.min_salary must be >= 0")
	}

	ats := map[string]ATSSource{
		"greenhouse":      out.Sources.Greenhouse,
		"lever":           out.Sources.Lever,
		"smartrecruiters": out.Sources.SmartRecruiters,
		"workday":         out.Sources.Workday,
	}
	for name, a := range ats {
		for i, c := range a.Companies {
			if c.Slug == "" {
				res.addErr("sources.%s.companies[%d].slug is required", name, i)
			}
		}
		if a.Enabled && len(a.Companies) == 0 {
			res.addWarn("sources.%s is enabled but has no companies.", name)
		}
	}

	for i, c := range out.Sources.Workday.Companies {
		if u, err := url.Parse(c.Slug); c.Slug != "" && (err != nil || u.Scheme == "" || u.Host == "") {
			res.addErr("sources.workday.companies[%d].slug must be the board URL", i)
		}
	}

	// password not required here; it's in the keychain
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unseen message will be inspected.")
		}
	}

	if out.Telegram.Enabled {
		if out.Telegram.ChatID == 0 {
			res.addErr("telegram.chat_id is required when telegram.enabled=true")
		}
		switch out.Telegram.MinConfidence {
		case "high", "medium":
		default:
			res.addErr("telegram.min_confidence must be high or medium")
		}
	}

	if !anySourceEnabled(out) {
		res.addWarn("no sources enabled; runs will only produce the static sponsor leads.")
	}

	return out, res
}

func anySourceEnabled(c Config) bool {
	s := c.Sources
	return s.Indeed.Enabled || s.Glassdoor.Enabled || s.ZipRecruiter.Enabled || s.Dice.Enabled ||
		s.IndeedRSS.Enabled || s.Careers.Enabled || s.MyVisaJobs.Enabled ||
		s.Greenhouse.Enabled || s.Lever.Enabled || s.SmartRecruiters.Enabled || s.Workday.Enabled || c.Email.Enabled
}

package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

func CleanText(s string) string {
	// Fields also splits on U+00A0.
	return strings.Join(strings.Fields(s), " ")
}

// Or returns the first non-blank value, else def.
func Or(def string, vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "LOCATIONS:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// StripCompanySuffix removes legal suffixes for display ("Google LLC" -> "Google").
func StripCompanySuffix(name string) string {
	for _, suf := range []string{" LLC", " Inc", " Corporation"} {
		name = strings.ReplaceAll(name, suf, "")
	}
	return name
}

// LooksLikeJunkTitle flags link texts like "View job" or "Apply now".
func LooksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return l == "" || strings.HasPrefix(l, "view") || strings.HasPrefix(l, "apply")
}

// AgeLabel renders a timestamp's age the way job boards do, so the recency
// filter reads it like any other posting date.
func AgeLabel(posted, now time.Time) string {
	age := now.Sub(posted)
	switch {
	case age < time.Hour:
		return "Just posted"
	case age < 48*time.Hour:
		return fmt.Sprintf("%d hours ago", int(age.Hours()))
	}
	return fmt.Sprintf("%d days ago", int(age.Hours()/24))
}

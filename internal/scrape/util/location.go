package util

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

var locationSelectors = []string{
	".location",
	".job__location",
	".posting-categories .location",
	"[data-testid='job-location']",
	"[data-test='job-location']",
	"[data-testid='location']",
}

// DocLocation finds a location on a job detail page, trying known selectors
// first and then a labeled "Location:" line in the page text.
func DocLocation(doc *goquery.Document) string {
	for _, sel := range locationSelectors {
		if t := CleanText(doc.Find(sel).First().Text()); t != "" {
			return NormalizeLocation(t)
		}
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if loc := LabeledLocation(v); loc != "" {
			return NormalizeLocation(loc)
		}
	}
	return NormalizeLocation(LabeledLocation(doc.Find("body").Text()))
}

// LabeledLocation returns the text after "Location:"-style labels, cut at the
// first line break or separator.
func LabeledLocation(s string) string {
	low := strings.ToLower(s)
	for _, lab := range []string{"job location:", "locations:", "location:"} {
		i := strings.Index(low, lab)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(s[i+len(lab):])
		for _, cut := range []string{"\n", "\r", " | ", " · "} {
			if j := strings.Index(rest, cut); j >= 0 {
				rest = rest[:j]
			}
		}
		rest = CleanText(rest)
		if rest != "" && len(rest) <= 80 {
			return rest
		}
	}
	return ""
}

// DescriptionText renders an HTML description fragment as Markdown. When the
// converter fails the plain text content is used instead.
func DescriptionText(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err == nil && strings.TrimSpace(md) != "" {
		return strings.TrimSpace(md)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CleanText(html)
	}
	return CleanText(doc.Text())
}

// SelectionText returns the description for s, preferring Markdown of its
// inner HTML.
func SelectionText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	h, err := s.Html()
	if err != nil {
		return CleanText(s.Text())
	}
	return DescriptionText(h)
}

// FirstText returns the cleaned text of the first selector that matches
// within s.
func FirstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := CleanText(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// FirstAttr is FirstText for an attribute.
func FirstAttr(s *goquery.Selection, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := s.Find(sel).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

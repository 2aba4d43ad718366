package catalog

import (
	"strings"
	"unicode"

	"h1bhunt-engine/internal/domain"

	"github.com/antzucaro/matchr"
)

// minSimilarity is the Jaro-Winkler score above which two normalized names
// are treated as the same employer.
const minSimilarity = 0.92

var legalSuffixes = map[string]bool{
	"inc": true, "llc": true, "ltd": true, "corp": true, "corporation": true,
	"co": true, "company": true, "plc": true, "lp": true, "the": true,
}

// Match finds the catalog sponsor a scraped company name refers to. Names
// are compared after dropping punctuation and legal suffixes; a scraped name
// that starts with a catalog name ("Amazon Web Services") also matches.
func Match(company string) (domain.CompanyRecord, bool) {
	name := normalizeCompany(company)
	if name == "" {
		return domain.CompanyRecord{}, false
	}

	var (
		best    domain.CompanyRecord
		bestSim float64
	)
	for _, c := range Sponsors() {
		cn := normalizeCompany(c.Name)
		if name == cn || strings.HasPrefix(name, cn+" ") {
			return c, true
		}
		if sim := matchr.JaroWinkler(name, cn, false); sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	if bestSim >= minSimilarity {
		return best, true
	}
	return domain.CompanyRecord{}, false
}

func normalizeCompany(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	var words []string
	for _, w := range strings.Fields(s) {
		if !legalSuffixes[w] {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

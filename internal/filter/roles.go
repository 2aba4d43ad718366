package filter

var DefaultRoles = []string{
	"devops",
	"dev ops",
	"site reliability",
	"sre",
	"infrastructure engineer",
	"platform engineer",
	"cloud engineer",
	"systems engineer",
	"reliability engineer",
}

// Roles matches postings against target role phrases.
type Roles []string

func NewRoles(list []string) Roles {
	if len(list) == 0 {
		return Roles(DefaultRoles)
	}
	return Roles(lowerAll(list))
}

// Match reports whether title or description mentions any role. "sre" is a
// plain substring, so words like "misread" match too.
func (r Roles) Match(title, description string) bool {
	return containsAny(fold(title+" "+description), r)
}

func IsTargetRole(title, description string) bool {
	return Roles(DefaultRoles).Match(title, description)
}

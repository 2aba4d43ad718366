// Package catalog holds the curated sponsor data used when live retrieval is
// blocked or returns nothing. All of it is historical filing data, never a
// statement about current openings.
package catalog

import (
	"strings"

	"h1bhunt-engine/internal/domain"
)

const (
	CategoryLarge      = "Large Companies"
	CategoryMedium     = "Medium Companies"
	CategorySmaller    = "Smaller Companies"
	CategoryConsulting = "Consulting Firms"

	verifiedUSCIS = "H1B sponsor verified via USCIS data"
)

var sponsors = []domain.CompanyRecord{
	{Name: "Microsoft", Category: CategoryLarge, CareerURL: "https://careers.microsoft.com", FilingBucket: "Filed 4000+ H1B petitions in recent years", TypicalRoles: []string{"Software Engineer", "DevOps Engineer", "SRE"}},
	{Name: "Amazon", Category: CategoryLarge, CareerURL: "https://www.amazon.jobs", FilingBucket: "Filed 3000+ H1B petitions in recent years", TypicalRoles: []string{"Software Development Engineer", "Systems Engineer"}},
	{Name: "Google", Category: CategoryLarge, CareerURL: "https://careers.google.com", FilingBucket: "Filed 3500+ H1B petitions in recent years", TypicalRoles: []string{"Site Reliability Engineer", "Software Engineer"}},
	{Name: "Meta", Category: CategoryLarge, CareerURL: "https://www.metacareers.com", FilingBucket: "Filed 2000+ H1B petitions in recent years", TypicalRoles: []string{"Production Engineer", "Software Engineer"}},
	{Name: "Apple", Category: CategoryLarge, CareerURL: "https://jobs.apple.com", FilingBucket: "Filed 2500+ H1B petitions in recent years", TypicalRoles: []string{"Software Engineer", "Systems Engineer"}},

	{Name: "Databricks", Category: CategoryMedium, CareerURL: "https://www.databricks.com/company/careers", FilingBucket: "Filed 500+ H1B petitions", TypicalRoles: []string{"Software Engineer", "Infrastructure Engineer"}},
	{Name: "Snowflake", Category: CategoryMedium, CareerURL: "https://careers.snowflake.com", FilingBucket: "Filed 400+ H1B petitions", TypicalRoles: []string{"Software Engineer", "Cloud Engineer"}},
	{Name: "Stripe", Category: CategoryMedium, CareerURL: "https://stripe.com/jobs", FilingBucket: "Filed 300+ H1B petitions", TypicalRoles: []string{"Software Engineer", "Infrastructure Engineer"}},
	{Name: "Coinbase", Category: CategoryMedium, CareerURL: "https://www.coinbase.com/careers", FilingBucket: "Filed 200+ H1B petitions", TypicalRoles: []string{"Software Engineer", "Security Engineer"}},
	{Name: "Datadog", Category: CategoryMedium, CareerURL: "https://www.datadoghq.com/careers", FilingBucket: "Filed 250+ H1B petitions", TypicalRoles: []string{"Software Engineer", "SRE"}},

	{Name: "HashiCorp", Category: CategorySmaller, CareerURL: "https://www.hashicorp.com/careers", FilingBucket: "Filed 100+ H1B petitions", TypicalRoles: []string{"Software Engineer"}},
	{Name: "GitLab", Category: CategorySmaller, CareerURL: "https://about.gitlab.com/jobs", FilingBucket: "Filed 80+ H1B petitions", TypicalRoles: []string{"Backend Engineer", "Infrastructure Engineer"}},
	{Name: "MongoDB", Category: CategorySmaller, CareerURL: "https://www.mongodb.com/careers", FilingBucket: "Filed 200+ H1B petitions", TypicalRoles: []string{"Software Engineer", "Cloud Engineer"}},
	{Name: "Elastic", Category: CategorySmaller, CareerURL: "https://www.elastic.co/careers", FilingBucket: "Filed 150+ H1B petitions", TypicalRoles: []string{"Software Engineer", "SRE"}},
	{Name: "Confluent", Category: CategorySmaller, CareerURL: "https://www.confluent.io/careers", FilingBucket: "Filed 180+ H1B petitions", TypicalRoles: []string{"Software Engineer", "Platform Engineer"}},

	{Name: "Thoughtworks", Category: CategoryConsulting, CareerURL: "https://www.thoughtworks.com/careers", FilingBucket: "Filed 200+ H1B petitions", TypicalRoles: []string{"Software Developer", "DevOps Consultant"}},
	{Name: "EPAM Systems", Category: CategoryConsulting, CareerURL: "https://www.epam.com/careers", FilingBucket: "Filed 2000+ H1B petitions", TypicalRoles: []string{"Software Engineer", "DevOps Engineer"}},
}

// Sponsors returns a copy of the categorized sponsor list, in category order.
func Sponsors() []domain.CompanyRecord {
	out := make([]domain.CompanyRecord, len(sponsors))
	for i, c := range sponsors {
		c.TypicalRoles = append([]string(nil), c.TypicalRoles...)
		c.Verified = verifiedUSCIS
		out[i] = c
	}
	return out
}

// Categories lists category names in catalog order.
func Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range sponsors {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}

// SponsorRow is the flattened export shape of a CompanyRecord.
type SponsorRow struct {
	CompanyName             string `json:"company_name"`
	Category                string `json:"category"`
	CareerWebsite           string `json:"career_website"`
	H1BSponsorshipHistory   string `json:"h1b_sponsorship_history"`
	TypicalEngineeringRoles string `json:"typical_engineering_roles"`
	DataVerification        string `json:"data_verification"`
	CurrentOpenings         string `json:"current_openings"`
	HasDevOpsSREJobs        string `json:"has_devops_sre_jobs"`
	LastVerified            string `json:"last_verified"`
	ActionRequired          string `json:"action_required"`
}

func (r SponsorRow) CSVFields() []domain.Field {
	return []domain.Field{
		{Name: "company_name", Value: r.CompanyName},
		{Name: "category", Value: r.Category},
		{Name: "career_website", Value: r.CareerWebsite},
		{Name: "h1b_sponsorship_history", Value: r.H1BSponsorshipHistory},
		{Name: "typical_engineering_roles", Value: r.TypicalEngineeringRoles},
		{Name: "data_verification", Value: r.DataVerification},
		{Name: "current_openings", Value: r.CurrentOpenings},
		{Name: "has_devops_sre_jobs", Value: r.HasDevOpsSREJobs},
		{Name: "last_verified", Value: r.LastVerified},
		{Name: "action_required", Value: r.ActionRequired},
	}
}

func RowFor(c domain.CompanyRecord) SponsorRow {
	return SponsorRow{
		CompanyName:             c.Name,
		Category:                c.Category,
		CareerWebsite:           c.CareerURL,
		H1BSponsorshipHistory:   c.FilingBucket,
		TypicalEngineeringRoles: strings.Join(c.TypicalRoles, ", "),
		DataVerification:        c.Verified,
		CurrentOpenings:         "MUST CHECK MANUALLY - Visit career website",
		HasDevOpsSREJobs:        "UNKNOWN - Must verify on career site",
		LastVerified:            "Historical H1B data from USCIS/MyVisaJobs",
		ActionRequired:          "Visit " + c.CareerURL + " and search for DevOps/SRE/Infrastructure roles",
	}
}

func SponsorRows() []SponsorRow {
	list := Sponsors()
	out := make([]SponsorRow, 0, len(list))
	for _, c := range list {
		out = append(out, RowFor(c))
	}
	return out
}

// Lookup finds a catalog sponsor by case-insensitive name.
func Lookup(name string) (domain.CompanyRecord, bool) {
	for _, c := range Sponsors() {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return domain.CompanyRecord{}, false
}

package catalog

type SearchResource struct {
	Name     string `json:"resource_name"`
	URL      string `json:"url"`
	Purpose  string `json:"purpose"`
	HowToUse string `json:"how_to_use"`
}

func SearchResources() []SearchResource {
	return []SearchResource{
		{
			Name:     "MyVisaJobs.com",
			URL:      "https://www.myvisajobs.com/Search_Visa_Sponsor.aspx",
			Purpose:  "Verify which companies currently sponsor H1B",
			HowToUse: "Search by company name or job title to see H1B filing history",
		},
		{
			Name:     "H1BGrader.com",
			URL:      "https://www.h1bgrader.com",
			Purpose:  "Check H1B approval rates and salary data",
			HowToUse: "Search company to see their H1B success rate",
		},
		{
			Name:     "LinkedIn Jobs",
			URL:      "https://www.linkedin.com/jobs/search/?keywords=devops%20h1b%20sponsorship",
			Purpose:  "Find current job openings with H1B sponsorship",
			HowToUse: `Use filters and search for "H1B" or "visa sponsorship" in job descriptions`,
		},
		{
			Name:     "Indeed",
			URL:      "https://www.indeed.com/q-Devops-Engineer-H1b-Sponsorship-jobs.html",
			Purpose:  "Search for jobs mentioning H1B sponsorship",
			HowToUse: `Add "H1B sponsorship" to your job search query`,
		},
		{
			Name:     "Wellfound (AngelList)",
			URL:      "https://wellfound.com/role/r/devops-engineer",
			Purpose:  "Startup jobs with visa sponsorship filter",
			HowToUse: `Use the "Visa Sponsorship" filter in job search`,
		},
	}
}

type GuideStep struct {
	Step        int      `json:"step"`
	Action      string   `json:"action"`
	Details     string   `json:"details,omitempty"`
	SearchTerms []string `json:"search_terms,omitempty"`
	LookFor     string   `json:"look_for,omitempty"`
	Indicators  []string `json:"indicators,omitempty"`
	Tips        []string `json:"tips,omitempty"`
}

type VerificationGuide struct {
	Title   string      `json:"title"`
	Warning string      `json:"warning"`
	Steps   []GuideStep `json:"steps"`
}

func Guide() VerificationGuide {
	return VerificationGuide{
		Title:   "How to Manually Verify Current Job Openings",
		Warning: "DO NOT trust any tool that claims to show current job listings without real-time verification",
		Steps: []GuideStep{
			{Step: 1, Action: "Visit company career page directly", Details: "Go to the career URL provided for each company"},
			{Step: 2, Action: "Search for relevant roles", SearchTerms: []string{"DevOps", "SRE", "Site Reliability", "Infrastructure", "Platform Engineer", "Cloud Engineer"}},
			{Step: 3, Action: "Check job requirements", LookFor: "Work authorization requirements, visa sponsorship mentions"},
			{Step: 4, Action: "Look for positive indicators", Indicators: []string{
				`No mention of "must be authorized to work without sponsorship"`,
				`Mentions "visa sponsorship available"`,
				`Says "H1B candidates welcome"`,
				"No citizenship requirements",
			}},
			{Step: 5, Action: "Apply strategically", Tips: []string{
				"Apply within 24 hours of posting",
				"Mention H1B need upfront in cover letter",
				"Highlight any US education or experience",
				"Emphasize specialized skills",
			}},
		},
	}
}

const ImportantNote = "This data shows H1B SPONSORSHIP HISTORY, not current job openings"

// Bundle is the JSON document written next to the sponsor CSV.
type Bundle struct {
	GeneratedDate     string            `json:"generated_date"`
	ImportantNote     string            `json:"important_note"`
	H1BSponsors       []SponsorRow      `json:"h1b_sponsors"`
	SearchResources   []SearchResource  `json:"search_resources"`
	VerificationGuide VerificationGuide `json:"verification_guide"`
}

func NewBundle(generated string) Bundle {
	return Bundle{
		GeneratedDate:     generated,
		ImportantNote:     ImportantNote,
		H1BSponsors:       SponsorRows(),
		SearchResources:   SearchResources(),
		VerificationGuide: Guide(),
	}
}

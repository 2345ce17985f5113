package extractor

// LinkedIn reworks its profile markup a few times a year. Every field is
// therefore read through an ordered chain of candidate selectors — first
// selector producing acceptable text wins — so a markup change is a table
// update here, not a code change.

// fieldRule is one candidate CSS selector for a scalar field. Text outside
// the [minLen, maxLen) bounds is rejected and the chain moves on.
type fieldRule struct {
	query  string
	minLen int
	maxLen int
}

var nameRules = []fieldRule{
	{query: "h1.text-heading-xlarge", minLen: 2, maxLen: 100},
	{query: ".pv-text-details__left-panel h1", minLen: 2, maxLen: 100},
	{query: "section[data-member-id] h1", minLen: 2, maxLen: 100},
	{query: "main h1", minLen: 2, maxLen: 100},
}

var headlineRules = []fieldRule{
	{query: ".pv-text-details__left-panel div.text-body-medium", minLen: 3, maxLen: 300},
	{query: "div.text-body-medium.break-words", minLen: 3, maxLen: 300},
	{query: "section[data-member-id] div.text-body-medium", minLen: 3, maxLen: 300},
	{query: "main section .text-body-medium", minLen: 3, maxLen: 300},
}

// sectionRule locates one profile section. Anchors are tried in order; the
// section container is the anchor's closest <section> ancestor (LinkedIn
// anchors sections with an empty div carrying the section id).
type sectionRule struct {
	key      string
	label    string
	anchors  []string
	maxItems int
}

var sectionRules = []sectionRule{
	{
		key:      "about",
		label:    "about",
		anchors:  []string{"div#about", "section.pv-about-section", "#about"},
		maxItems: 10,
	},
	{
		key:      "experience",
		label:    "work experience",
		anchors:  []string{"div#experience", "section#experience-section", "#experience"},
		maxItems: 40,
	},
	{
		key:      "education",
		label:    "education",
		anchors:  []string{"div#education", "section#education-section", "#education"},
		maxItems: 20,
	},
	{
		key:      "skills",
		label:    "skills",
		anchors:  []string{"div#skills", "section.pv-skill-categories-section", "#skills"},
		maxItems: 40,
	},
	{
		key:      "activity",
		label:    "recent activity",
		anchors:  []string{"div#content_collections", "section.pv-recent-activity-section", "#recent_activity"},
		maxItems: 15,
	},
}

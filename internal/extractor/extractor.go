// Package extractor reads structured fields out of a captured LinkedIn
// profile page using prioritized CSS-selector fallback chains, and formats
// them into the single text blob the prompt layer consumes.
package extractor

import (
	"errors"
	"strings"

	"coldopen/internal/linkedin"
	"coldopen/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// ErrProfileUnreadable means the name selector chain found nothing usable.
// Every other field degrades to empty; a page without a readable name is not
// a profile page.
var ErrProfileUnreadable = errors.New("profile page unreadable")

// Extraction is the raw field set pulled from one rendered profile page.
// Section fields hold either collected text or their unavailability sentinel.
type Extraction struct {
	Name       string
	Headline   string
	About      string
	Experience string
	Education  string
	Skills     string
	Activity   string
}

// ExtractProfile parses the rendered page HTML and assembles a TargetProfile.
// The page URL is canonicalized and doubles as the profile identity.
func ExtractProfile(pageHTML, pageURL string) (*model.TargetProfile, error) {
	ex, err := Extract(pageHTML)
	if err != nil {
		return nil, err
	}

	canonical := linkedin.NormalizeProfileURL(pageURL)
	id := linkedin.PublicID(canonical)
	if id == "" {
		id = canonical
	}

	return &model.TargetProfile{
		ID:             id,
		LinkedInURL:    canonical,
		Name:           ex.Name,
		JobTitle:       ex.Headline,
		Company:        linkedin.CompanyFromHeadline(ex.Headline),
		RawProfileText: FormatProfileText(ex),
	}, nil
}

// Extract pulls all seven fields out of the page. Fails only when the name
// chain fails; optional fields fall back to empty or their sentinel.
func Extract(pageHTML string) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return Extraction{}, err
	}

	name := firstMatch(doc, nameRules)
	if name == "" {
		return Extraction{}, ErrProfileUnreadable
	}

	ex := Extraction{
		Name:     name,
		Headline: firstMatch(doc, headlineRules),
	}
	for _, rule := range sectionRules {
		text := extractSection(doc, rule)
		switch rule.key {
		case "about":
			ex.About = text
		case "experience":
			ex.Experience = text
		case "education":
			ex.Education = text
		case "skills":
			ex.Skills = text
		case "activity":
			ex.Activity = text
		}
	}
	return ex, nil
}

// firstMatch walks the selector chain and returns the first candidate whose
// cleaned text lands inside the rule's length bounds.
func firstMatch(doc *goquery.Document, rules []fieldRule) string {
	for _, rule := range rules {
		sel := doc.Find(rule.query).First()
		if sel.Length() == 0 {
			continue
		}
		text := cleanText(sel.Text())
		if len(text) >= rule.minLen && len(text) < rule.maxLen {
			return text
		}
	}
	return ""
}

// cleanText collapses all runs of whitespace to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// unavailableSuffix closes every section sentinel. The sentinel is
// load-bearing: the formatter drops a section header entirely when its text
// is the sentinel, so downstream prompts never see empty headings.
const unavailableSuffix = " information available"

func unavailableSentinel(label string) string {
	return fmt.Sprintf("No %s%s", label, unavailableSuffix)
}

// SectionUnavailable reports whether the text is an unavailability sentinel
// rather than collected content.
func SectionUnavailable(text string) bool {
	return strings.HasPrefix(text, "No ") && strings.HasSuffix(text, unavailableSuffix)
}

// extractSection locates the section container and walks its text-bearing
// descendants. Returns the sentinel when the section is absent or empty.
func extractSection(doc *goquery.Document, rule sectionRule) string {
	container := sectionContainer(doc, rule.anchors)
	if container == nil {
		return unavailableSentinel(rule.label)
	}

	items := collectSectionText(container, rule.maxItems)
	if len(items) == 0 {
		return unavailableSentinel(rule.label)
	}
	return strings.Join(items, "\n")
}

// sectionContainer resolves an anchor to its enclosing <section>. LinkedIn
// marks section starts with an empty div holding the section id; the content
// lives in the section element wrapping it.
func sectionContainer(doc *goquery.Document, anchors []string) *goquery.Selection {
	for _, anchor := range anchors {
		hit := doc.Find(anchor).First()
		if hit.Length() == 0 {
			continue
		}
		if section := hit.Closest("section"); section.Length() > 0 {
			return section
		}
		return hit.Parent()
	}
	return nil
}

// collectSectionText gathers visible text within a section container.
// LinkedIn duplicates most strings into visually-hidden spans for screen
// readers; the aria-hidden copies are the canonical render, so those are
// preferred and everything else is the fallback. A candidate that is a
// substring of an already collected value is dropped — that is exactly the
// duplicate the hidden-span markup produces.
func collectSectionText(container *goquery.Selection, maxItems int) []string {
	candidates := container.Find(`span[aria-hidden="true"]`)
	if candidates.Length() == 0 {
		candidates = container.Find("p, li, span")
	}

	var items []string
	candidates.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(items) >= maxItems {
			return false
		}
		text := cleanText(s.Text())
		if len(text) < 3 {
			return true
		}
		for _, prev := range items {
			if strings.Contains(prev, text) {
				return true
			}
		}
		items = append(items, text)
		return true
	})
	return items
}

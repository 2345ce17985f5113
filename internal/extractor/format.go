package extractor

import "strings"

const banner = "========================================"

// formatSection pairs a fixed header with its extracted text.
type formatSection struct {
	header string
	text   func(Extraction) string
}

var formatOrder = []formatSection{
	{"ABOUT", func(e Extraction) string { return e.About }},
	{"WORK EXPERIENCE", func(e Extraction) string { return e.Experience }},
	{"EDUCATION", func(e Extraction) string { return e.Education }},
	{"SKILLS", func(e Extraction) string { return e.Skills }},
	{"RECENT ACTIVITY & POSTS", func(e Extraction) string { return e.Activity }},
}

// FormatProfileText renders the extraction into the single delimited blob the
// prompts consume. Pure and deterministic: identical input, identical output.
// Sections whose extraction returned the unavailability sentinel are omitted
// entirely — header included — rather than printed empty.
func FormatProfileText(ex Extraction) string {
	var b strings.Builder

	b.WriteString(banner)
	b.WriteString("\nLINKEDIN PROFILE: ")
	b.WriteString(ex.Name)
	b.WriteString("\n")
	b.WriteString(banner)
	b.WriteString("\n")

	if ex.Headline != "" {
		b.WriteString("Headline: ")
		b.WriteString(ex.Headline)
		b.WriteString("\n")
	}

	for _, section := range formatOrder {
		text := section.text(ex)
		if text == "" || SectionUnavailable(text) {
			continue
		}
		b.WriteString("\n")
		b.WriteString(section.header)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(section.header)))
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(banner)
	b.WriteString("\nEND OF PROFILE\n")
	b.WriteString(banner)
	return b.String()
}

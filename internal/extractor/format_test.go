package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullExtraction() Extraction {
	return Extraction{
		Name:       "Sarah Chen",
		Headline:   "Engineering Manager at TechCorp",
		About:      "Building platform teams for a decade.",
		Experience: "Engineering Manager, TechCorp 2021-Present\nSenior Engineer, StartupX 2017-2021",
		Education:  "BSc Computer Science, MIT",
		Skills:     "Go\nDistributed Systems",
		Activity:   "Posted about hiring for platform roles.",
	}
}

func TestFormatProfileTextFull(t *testing.T) {
	t.Parallel()

	out := FormatProfileText(fullExtraction())

	assert.Contains(t, out, "LINKEDIN PROFILE: Sarah Chen")
	assert.Contains(t, out, "Headline: Engineering Manager at TechCorp")
	assert.Contains(t, out, "END OF PROFILE")

	// Sections appear under their headers, in profile order.
	order := []string{"ABOUT", "WORK EXPERIENCE", "EDUCATION", "SKILLS", "RECENT ACTIVITY & POSTS"}
	last := -1
	for _, header := range order {
		idx := strings.Index(out, "\n"+header+"\n")
		assert.Greaterf(t, idx, last, "section %q out of order", header)
		last = idx
	}
	assert.Contains(t, out, "Senior Engineer, StartupX 2017-2021")
}

func TestFormatProfileTextOmitsUnavailableSections(t *testing.T) {
	t.Parallel()

	ex := fullExtraction()
	ex.About = unavailableSentinel("about")
	ex.Skills = unavailableSentinel("skills")

	out := FormatProfileText(ex)

	assert.NotContains(t, out, "ABOUT")
	assert.NotContains(t, out, "SKILLS")
	assert.NotContains(t, out, "information available")
	assert.Contains(t, out, "WORK EXPERIENCE")
	assert.Contains(t, out, "EDUCATION")
}

func TestFormatProfileTextBareProfile(t *testing.T) {
	t.Parallel()

	// Only a name survived extraction; every section is its sentinel.
	ex := Extraction{
		Name:       "Miguel Torres",
		About:      unavailableSentinel("about"),
		Experience: unavailableSentinel("work experience"),
		Education:  unavailableSentinel("education"),
		Skills:     unavailableSentinel("skills"),
		Activity:   unavailableSentinel("recent activity"),
	}

	out := FormatProfileText(ex)

	assert.Contains(t, out, "LINKEDIN PROFILE: Miguel Torres")
	assert.Contains(t, out, "END OF PROFILE")
	assert.NotContains(t, out, "Headline:")
	for _, header := range []string{"ABOUT", "WORK EXPERIENCE", "EDUCATION", "SKILLS", "RECENT ACTIVITY & POSTS"} {
		assert.NotContains(t, out, header)
	}
}

func TestFormatProfileTextDeterministic(t *testing.T) {
	t.Parallel()

	ex := fullExtraction()
	assert.Equal(t, FormatProfileText(ex), FormatProfileText(ex))
}

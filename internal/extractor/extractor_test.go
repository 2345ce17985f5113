package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilePage = `<html><body><main>
<section data-member-id="42">
  <h1 class="text-heading-xlarge">  Sarah
    Chen  </h1>
  <div class="text-body-medium break-words">Engineering Manager at TechCorp</div>
</section>
<section>
  <div id="about"></div>
  <div><span aria-hidden="true">Building platform teams for a decade.</span></div>
  <div><span class="visually-hidden">Building platform teams for a decade.</span></div>
</section>
<section>
  <div id="experience"></div>
  <ul>
    <li><span aria-hidden="true">Engineering Manager, TechCorp 2021-Present</span></li>
    <li><span aria-hidden="true">Senior Engineer, StartupX 2017-2021</span></li>
  </ul>
</section>
<section>
  <div id="skills"></div>
  <ul>
    <li><span aria-hidden="true">Go</span></li>
    <li><span aria-hidden="true">Distributed Systems</span></li>
  </ul>
</section>
</main></body></html>`

func TestExtractFullPage(t *testing.T) {
	t.Parallel()

	ex, err := Extract(profilePage)
	require.NoError(t, err)

	assert.Equal(t, "Sarah Chen", ex.Name, "whitespace runs collapse to single spaces")
	assert.Equal(t, "Engineering Manager at TechCorp", ex.Headline)
	assert.Equal(t, "Building platform teams for a decade.", ex.About)
	assert.Equal(t, "Engineering Manager, TechCorp 2021-Present\nSenior Engineer, StartupX 2017-2021", ex.Experience)
	assert.Equal(t, "Distributed Systems", ex.Skills, "entries under the minimum length are skipped")

	assert.True(t, SectionUnavailable(ex.Education))
	assert.True(t, SectionUnavailable(ex.Activity))
	assert.Equal(t, "No education information available", ex.Education)
	assert.Equal(t, "No recent activity information available", ex.Activity)
}

func TestExtractNameFallbackChain(t *testing.T) {
	t.Parallel()

	// No class-specific heading anywhere; only the last-resort selector hits.
	page := `<html><body><main><h1>Miguel Torres</h1></main></body></html>`
	ex, err := Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "Miguel Torres", ex.Name)
}

func TestExtractUnreadablePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
	}{
		{name: "login wall", html: `<html><body><form><input name="session_key"></form></body></html>`},
		{name: "empty heading", html: `<html><body><main><h1>  </h1></main></body></html>`},
		{name: "heading too short", html: `<html><body><main><h1>X</h1></main></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Extract(tt.html)
			assert.ErrorIs(t, err, ErrProfileUnreadable)
		})
	}
}

func TestExtractDropsHiddenSpanDuplicates(t *testing.T) {
	t.Parallel()

	page := `<html><body><main>
<h1 class="text-heading-xlarge">Sarah Chen</h1>
<section>
  <div id="about"></div>
  <p>Shipping since 2012.</p>
  <p>Shipping since</p>
</section>
</main></body></html>`

	ex, err := Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "Shipping since 2012.", ex.About,
		"text that is a substring of an earlier entry is a hidden-span duplicate")
}

func TestExtractProfile(t *testing.T) {
	t.Parallel()

	profile, err := ExtractProfile(profilePage, "https://www.linkedin.com/in/sarah-chen/?trk=feed#main")
	require.NoError(t, err)

	assert.Equal(t, "sarah-chen", profile.ID)
	assert.Equal(t, "https://www.linkedin.com/in/sarah-chen", profile.LinkedInURL)
	assert.Equal(t, "Sarah Chen", profile.Name)
	assert.Equal(t, "Engineering Manager at TechCorp", profile.JobTitle)
	assert.Equal(t, "TechCorp", profile.Company)
	assert.Contains(t, profile.RawProfileText, "LINKEDIN PROFILE: Sarah Chen")
	assert.Contains(t, profile.RawProfileText, "Engineering Manager, TechCorp 2021-Present")
}

func TestExtractProfileUnreadable(t *testing.T) {
	t.Parallel()

	_, err := ExtractProfile("<html><body></body></html>", "https://www.linkedin.com/in/ghost")
	assert.ErrorIs(t, err, ErrProfileUnreadable)
}

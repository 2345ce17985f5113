package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProfileURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://www.linkedin.com/in/jane-doe", "https://www.linkedin.com/in/jane-doe"},
		{"trailing slash", "https://www.linkedin.com/in/jane-doe/", "https://www.linkedin.com/in/jane-doe"},
		{"query string", "https://www.linkedin.com/in/jane-doe?utm_source=share", "https://www.linkedin.com/in/jane-doe"},
		{"fragment", "https://www.linkedin.com/in/jane-doe#experience", "https://www.linkedin.com/in/jane-doe"},
		{"all three", "https://www.linkedin.com/in/jane-doe/?miniProfileUrn=abc#about", "https://www.linkedin.com/in/jane-doe"},
		{"upper host", "https://WWW.LinkedIn.com/in/jane-doe", "https://www.linkedin.com/in/jane-doe"},
		{"relative", "/in/jane-doe/?x=1", "/in/jane-doe"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeProfileURL(tc.in))
		})
	}
}

func TestSameProfile(t *testing.T) {
	t.Parallel()

	assert.True(t, SameProfile(
		"https://www.linkedin.com/in/jane-doe/",
		"https://www.linkedin.com/in/jane-doe?utm_source=share#about",
	))
	assert.False(t, SameProfile(
		"https://www.linkedin.com/in/jane-doe",
		"https://www.linkedin.com/in/john-smith",
	))
	assert.False(t, SameProfile("", ""))
}

func TestPublicID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jane-doe", PublicID("https://www.linkedin.com/in/jane-doe/"))
	assert.Equal(t, "jane-doe", PublicID("https://www.linkedin.com/in/jane-doe?trk=feed"))
	assert.Equal(t, "jané", PublicID("https://www.linkedin.com/in/jan%C3%A9"))
	assert.Equal(t, "", PublicID("https://www.linkedin.com/feed/"))
}

func TestIsProfileURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsProfileURL("https://www.linkedin.com/in/jane-doe"))
	assert.True(t, IsProfileURL("https://LINKEDIN.com/in/jane"))
	assert.False(t, IsProfileURL("https://www.linkedin.com/feed/"))
	assert.False(t, IsProfileURL("https://example.com/in/jane"))
}

func TestCompanyFromHeadline(t *testing.T) {
	t.Parallel()

	cases := []struct {
		headline string
		want     string
	}{
		{"Senior Engineer at Acme", "Acme"},
		{"Head of Data at Scale at Initech", "Initech"},
		{"Engineer at Acme Corp ", "Acme Corp"},
		{"Freelance Designer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompanyFromHeadline(tc.headline), "headline %q", tc.headline)
	}
}

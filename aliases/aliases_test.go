package aliases

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSchool(t *testing.T) {
	tests := []struct {
		name   string
		school string
		want   string
	}{
		{"exact short form", "MIT", "mit"},
		{"full name", "Massachusetts Institute of Technology", "mit"},
		{"sub-school", "Stanford GSB", "stanford"},
		{"case insensitive", "iit bombay", "iit_bombay"},
		{"unknown school slugified", "Some Obscure College", "some_obscure_college"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalSchool(tt.school))
		})
	}
}

func TestCanonicalSchool_SlugTruncation(t *testing.T) {
	slug := CanonicalSchool("An Extremely Long Unrecognized Institution Name")
	assert.LessOrEqual(t, len([]rune(slug)), 20)
}

func TestSchoolVariations(t *testing.T) {
	vars := SchoolVariations("IISc")
	assert.Contains(t, vars, "Indian Institute of Science")
	assert.Contains(t, vars, "IISc Bangalore")

	// Unknown school returns itself
	assert.Equal(t, []string{"Hogwarts"}, SchoolVariations("Hogwarts"))
}

func TestExpandLocation(t *testing.T) {
	vars := ExpandLocation("Bengaluru")
	assert.Contains(t, vars, "Bangalore")
	assert.Contains(t, vars, "Karnataka")

	vars = ExpandLocation("SF")
	assert.Contains(t, vars, "San Francisco")
	assert.Contains(t, vars, "Bay Area")

	assert.Equal(t, []string{"Timbuktu"}, ExpandLocation("Timbuktu"))
}

func TestExpandSkill(t *testing.T) {
	vars := ExpandSkill("frontend")
	assert.Contains(t, vars, "react")
	assert.Contains(t, vars, "javascript")

	// Membership is exact, not substring
	assert.Equal(t, []string{"reactive programming"}, ExpandSkill("reactive programming"))
}

func TestExpandCompany(t *testing.T) {
	vars := ExpandCompany("Google")
	assert.Contains(t, vars, "Alphabet")
	assert.Contains(t, vars, "DeepMind")

	assert.Equal(t, []string{"Initech"}, ExpandCompany("Initech"))
}

func TestPromptContext(t *testing.T) {
	ctx := PromptContext()

	assert.Contains(t, ctx, "SCHOOLS:")
	assert.Contains(t, ctx, "LOCATIONS:")
	assert.Contains(t, ctx, "SKILLS:")
	assert.Contains(t, ctx, "IIT Bombay")
	assert.Contains(t, ctx, "Bangalore")

	// Deterministic across calls
	assert.Equal(t, ctx, PromptContext())

	// Compact enough to live inside a system prompt
	assert.Less(t, len(strings.Split(ctx, "\n")), 40)
}

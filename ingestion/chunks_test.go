package ingestion

import (
	"strings"
	"testing"

	"github.com/poiesic/bracee/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *core.PersonRecord {
	return &core.PersonRecord{
		ID:       "p1",
		Name:     "Ada",
		Headline: "ML engineer",
		Bio:      "Builds recommender systems.",
		Location: "Bangalore, India",
		WorkExperience: []core.WorkExperience{
			{Title: "Senior Engineer", Company: "Google", Description: "Search ranking."},
			{Title: "Engineer", Company: "Flipkart"},
		},
		Education: []core.EducationEntry{
			{School: "Stanford University", Degree: "MS", Field: "Computer Science"},
			{School: "IIT Bombay", Degree: "BTech"},
		},
	}
}

func chunksByFacet(chunks []chunk) map[core.Facet][]chunk {
	out := make(map[core.Facet][]chunk)
	for _, c := range chunks {
		out[c.facet] = append(out[c.facet], c)
	}
	return out
}

func TestBuildChunks_FullRecord(t *testing.T) {
	byFacet := chunksByFacet(buildChunks(sampleRecord()))

	require.Len(t, byFacet[core.FacetEducation], 2)
	assert.Len(t, byFacet[core.FacetSkills], 1)
	assert.Len(t, byFacet[core.FacetCompanies], 1)
	assert.Len(t, byFacet[core.FacetLocation], 1)
	assert.Len(t, byFacet[core.FacetFreeText], 1)
}

func TestEducationChunks(t *testing.T) {
	chunks := educationChunks(sampleRecord())
	require.Len(t, chunks, 2)

	assert.Equal(t, "education:p1:0", chunks[0].id)
	assert.Equal(t, "Stanford University, MS in Computer Science", chunks[0].text)
	assert.Equal(t, "Stanford University", chunks[0].metadata["school"])
	assert.Equal(t, "p1", chunks[0].metadata["person_id"])

	assert.Equal(t, "education:p1:1", chunks[1].id)
	assert.Equal(t, "IIT Bombay, BTech", chunks[1].text)
}

func TestEducationChunks_SkipsPlaceholderSchools(t *testing.T) {
	record := &core.PersonRecord{
		ID:   "p1",
		Name: "Ada",
		Education: []core.EducationEntry{
			{School: "*"},
			{School: "  "},
			{School: "Stanford University"},
		},
	}

	chunks := educationChunks(record)
	require.Len(t, chunks, 1)
	assert.Equal(t, "education:p1:0", chunks[0].id)
	assert.Equal(t, "Stanford University", chunks[0].metadata["school"])
}

func TestCompaniesChunk(t *testing.T) {
	c := companiesChunk(sampleRecord())
	require.NotNil(t, c)
	assert.Equal(t, "companies:p1:0", c.id)
	assert.Contains(t, c.text, "Work experience at: Google, Flipkart")
	assert.Contains(t, c.text, "Senior Engineer at Google")
	assert.Equal(t, "Google, Flipkart", c.metadata["companies"])
}

func TestCompaniesChunk_NilWithoutCompanies(t *testing.T) {
	assert.Nil(t, companiesChunk(&core.PersonRecord{ID: "p1", Name: "Ada"}))
}

func TestCompaniesChunk_DedupesMetadata(t *testing.T) {
	record := &core.PersonRecord{
		ID:   "p1",
		Name: "Ada",
		WorkExperience: []core.WorkExperience{
			{Title: "Staff Engineer", Company: "Google"},
			{Title: "Senior Engineer", Company: "Google"},
		},
	}

	c := companiesChunk(record)
	require.NotNil(t, c)
	assert.Equal(t, "Google", c.metadata["companies"])
}

func TestLocationChunk_NilWithoutLocation(t *testing.T) {
	assert.Nil(t, locationChunk(&core.PersonRecord{ID: "p1", Name: "Ada"}))

	c := locationChunk(sampleRecord())
	require.NotNil(t, c)
	assert.Equal(t, "Located in: Bangalore, India", c.text)
	assert.Equal(t, "Bangalore, India", c.metadata["location"])
}

func TestSkillsChunk_TruncatesRolesAndBio(t *testing.T) {
	record := sampleRecord()
	record.Bio = strings.Repeat("x", 400)
	for range 10 {
		record.WorkExperience = append(record.WorkExperience,
			core.WorkExperience{Title: "Contractor", Company: "Acme"})
	}

	c := skillsChunk(record)
	require.NotNil(t, c)
	assert.Contains(t, c.text, "Skills and expertise: ML engineer.")
	// At most five role titles listed
	assert.Contains(t, c.text, "Roles: Senior Engineer, Engineer, Contractor, Contractor, Contractor.")
	// Bio capped at 300 runes
	assert.Contains(t, c.text, "Background: "+strings.Repeat("x", 300))
	assert.NotContains(t, c.text, strings.Repeat("x", 301))
}

func TestFreeTextChunk_ContainsWholeRecord(t *testing.T) {
	c := freeTextChunk(sampleRecord())
	assert.Equal(t, "free_text:p1:0", c.id)
	assert.Contains(t, c.text, "Name: Ada.")
	assert.Contains(t, c.text, "Senior Engineer at Google. Search ranking.")
	assert.Contains(t, c.text, "Studied MS Computer Science at Stanford University.")
}

func TestBuildProfile(t *testing.T) {
	p := buildProfile(sampleRecord())
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "Senior Engineer at Google", p.CurrentRole)
	assert.Equal(t, []string{"Stanford University", "IIT Bombay"}, p.Education)
	assert.Equal(t, []string{"Google", "Flipkart"}, p.Companies)
}

func TestBuildProfile_SkipsPlaceholderSchools(t *testing.T) {
	record := sampleRecord()
	record.Education = append(record.Education, core.EducationEntry{School: "*"})

	p := buildProfile(record)
	assert.Equal(t, []string{"Stanford University", "IIT Bombay"}, p.Education)
}

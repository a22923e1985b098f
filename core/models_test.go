package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacetValid(t *testing.T) {
	for _, f := range AllFacets() {
		assert.True(t, f.Valid(), "facet %q should be valid", f)
	}
	assert.False(t, Facet("projects").Valid())
	assert.False(t, Facet("").Valid())
}

func TestFacetNamespace(t *testing.T) {
	assert.Equal(t, "education", FacetEducation.Namespace())
	assert.Equal(t, "free_text", FacetFreeText.Namespace())
}

func TestReferencedFacets(t *testing.T) {
	in := &Interpretation{
		RawQuery: "frontend folks in Bangalore",
		Facets: map[Facet]FacetQuery{
			FacetSkills:    {Terms: []string{"frontend", "react"}, Logic: LogicOr},
			FacetLocation:  {Terms: []string{"Bangalore", "Bengaluru"}, Logic: LogicOr},
			FacetCompanies: {Logic: LogicOr}, // no terms, not referenced
		},
	}

	facets := in.ReferencedFacets()
	assert.Equal(t, []Facet{FacetSkills, FacetLocation}, facets)
}

func TestDegradedInterpretation(t *testing.T) {
	in := DegradedInterpretation("obscure query nobody parsed")

	assert.True(t, in.Degraded)
	assert.Equal(t, "obscure query nobody parsed", in.RawQuery)
	assert.Equal(t, "obscure query nobody parsed", in.NormalizedQuery)

	facets := in.ReferencedFacets()
	require.Equal(t, []Facet{FacetFreeText}, facets)
	assert.Equal(t, []string{"obscure query nobody parsed"}, in.Facets[FacetFreeText].Terms)
}

func TestSortFused(t *testing.T) {
	results := []FusedResult{
		{PersonID: "c", Score: 0.5, Facets: []Facet{FacetSkills}},
		{PersonID: "b", Score: 0.5, Facets: []Facet{FacetSkills, FacetLocation}},
		{PersonID: "a", Score: 0.5, Facets: []Facet{FacetSkills}},
		{PersonID: "d", Score: 0.9, Facets: []Facet{FacetSkills}},
	}

	SortFused(results)

	// Highest score first, then more contributing facets, then ID order.
	assert.Equal(t, "d", results[0].PersonID)
	assert.Equal(t, "b", results[1].PersonID)
	assert.Equal(t, "a", results[2].PersonID)
	assert.Equal(t, "c", results[3].PersonID)
}

package core

import "sort"

// Facet is one semantic dimension of a person profile. Each facet maps to
// exactly one vector namespace; vectors from different facets are never
// compared against each other.
type Facet string

const (
	FacetEducation Facet = "education"
	FacetSkills    Facet = "skills"
	FacetCompanies Facet = "companies"
	FacetLocation  Facet = "location"
	FacetFreeText  Facet = "free_text"
)

// AllFacets returns every facet in canonical order.
func AllFacets() []Facet {
	return []Facet{FacetEducation, FacetSkills, FacetCompanies, FacetLocation, FacetFreeText}
}

// Valid reports whether the facet is a member of the closed facet set.
func (f Facet) Valid() bool {
	switch f {
	case FacetEducation, FacetSkills, FacetCompanies, FacetLocation, FacetFreeText:
		return true
	}
	return false
}

// Namespace returns the vector namespace holding this facet's embeddings.
func (f Facet) Namespace() string {
	return string(f)
}

// Logic determines how multiple values within a single facet combine.
type Logic string

const (
	// LogicOr retains a person matching any value (union).
	LogicOr Logic = "OR"
	// LogicAnd retains a person only if they match every conjunction group
	// (intersection).
	LogicAnd Logic = "AND"
)

// ConjunctionGroup is one required value within a facet, together with the
// name variations that count as a match for it. "Stanford and MIT" yields two
// groups; a person must match both for LogicAnd to retain them.
type ConjunctionGroup struct {
	Canonical  string
	Variations []string
}

// FacetQuery holds the interpretation of a single facet: the expanded search
// terms, the within-facet combination logic, and the conjunction groups used
// to verify LogicAnd.
type FacetQuery struct {
	Terms  []string
	Logic  Logic
	Groups []ConjunctionGroup
}

// Empty reports whether the facet was referenced by the query at all.
// Empty facets must not be searched.
func (fq FacetQuery) Empty() bool {
	return len(fq.Terms) == 0
}

// Interpretation is the structured, facet-decomposed understanding of a raw
// query. Interpretations are immutable once created; the normalizer caches
// them keyed by the case-folded raw query text.
type Interpretation struct {
	RawQuery        string
	NormalizedQuery string
	Intent          string
	Facets          map[Facet]FacetQuery
	// Degraded marks the fallback interpretation produced when the LLM was
	// unreachable or returned an undecodable response: the whole raw query
	// treated as free text.
	Degraded bool
}

// ReferencedFacets returns the facets with a non-empty expansion, in
// canonical order.
func (in *Interpretation) ReferencedFacets() []Facet {
	var facets []Facet
	for _, f := range AllFacets() {
		if fq, ok := in.Facets[f]; ok && !fq.Empty() {
			facets = append(facets, f)
		}
	}
	return facets
}

// DegradedInterpretation builds the fallback interpretation: the entire raw
// query as free text with no facet expansion.
func DegradedInterpretation(raw string) *Interpretation {
	return &Interpretation{
		RawQuery:        raw,
		NormalizedQuery: raw,
		Facets: map[Facet]FacetQuery{
			FacetFreeText: {Terms: []string{raw}, Logic: LogicOr},
		},
		Degraded: true,
	}
}

// WorkExperience is a single job entry on a person record.
type WorkExperience struct {
	Title       string
	Company     string
	Description string
}

// EducationEntry is a single education entry on a person record.
type EducationEntry struct {
	School string
	Degree string
	Field  string
}

// PersonRecord is the immutable input entity for ingestion. The retrieval
// core never mutates it.
type PersonRecord struct {
	ID             string
	Name           string
	Headline       string
	Bio            string
	Location       string
	WorkExperience []WorkExperience
	Education      []EducationEntry
	Metadata       map[string]string
}

// Profile is the descriptive summary stored per person for reranking and
// result display.
type Profile struct {
	ID          string
	Name        string
	Headline    string
	Location    string
	CurrentRole string
	Education   []string
	Companies   []string
}

// Candidate is a single per-facet vector match. Candidates are ephemeral;
// they exist only between retrieval and fusion.
type Candidate struct {
	PersonID string
	Facet    Facet
	Score    float64
	// Metadata carries the namespace chunk's stored fields, used by fusion
	// to verify conjunction groups (e.g. the school name behind an
	// education match).
	Metadata map[string]string
}

// FusedResult is the output of result fusion: one person with an aggregate
// score and the facets that contributed to it.
type FusedResult struct {
	PersonID string
	Score    float64
	Facets   []Facet
}

// FinalResult is the externally visible output pair.
type FinalResult struct {
	PersonID string  `json:"id"`
	Score    float64 `json:"score"`
}

// QueryResult is the persisted record of one query run.
type QueryResult struct {
	Query   string        `json:"query"`
	Results []FinalResult `json:"results"`
}

// SortFused orders fused results by aggregate score descending, then by
// contributing facet count descending, then by person ID for determinism.
func SortFused(results []FusedResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].Facets) != len(results[j].Facets) {
			return len(results[i].Facets) > len(results[j].Facets)
		}
		return results[i].PersonID < results[j].PersonID
	})
}

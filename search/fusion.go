package search

import (
	"strings"

	"github.com/poiesic/bracee/core"
)

// Fuse combines per-facet candidate sets into a single ranked list.
//
// The pipeline per facet: verify conjunction groups (AND logic), collapse
// to one best-scoring candidate per person, then min-max normalize scores
// so facets with different score distributions contribute equally. Across
// facets the combination is always intersection: a query that names both a
// school and a skill only returns people matched by both namespaces. The
// aggregate score is the mean of the person's normalized per-facet scores.
//
// Fuse is pure; it touches no storage and no network.
func Fuse(interp *core.Interpretation, candidates map[core.Facet][]core.Candidate) []core.FusedResult {
	type facetScores struct {
		facet  core.Facet
		scores map[string]float64
	}

	var perFacet []facetScores
	for _, facet := range core.AllFacets() {
		cands, ok := candidates[facet]
		if !ok || len(cands) == 0 {
			continue
		}

		fq := interp.Facets[facet]
		if fq.Logic == core.LogicAnd && len(fq.Groups) > 1 {
			cands = filterConjunction(facet, fq.Groups, cands)
		}
		if len(cands) == 0 {
			continue
		}

		best := bestPerPerson(cands)
		normalizeScores(best)
		perFacet = append(perFacet, facetScores{facet: facet, scores: best})
	}

	if len(perFacet) == 0 {
		return nil
	}

	// Cross-facet intersection
	valid := make(map[string]bool, len(perFacet[0].scores))
	for id := range perFacet[0].scores {
		valid[id] = true
	}
	for _, fs := range perFacet[1:] {
		for id := range valid {
			if _, ok := fs.scores[id]; !ok {
				delete(valid, id)
			}
		}
	}

	results := make([]core.FusedResult, 0, len(valid))
	for id := range valid {
		var sum float64
		var facets []core.Facet
		for _, fs := range perFacet {
			sum += fs.scores[id]
			facets = append(facets, fs.facet)
		}
		results = append(results, core.FusedResult{
			PersonID: id,
			Score:    sum / float64(len(perFacet)),
			Facets:   facets,
		})
	}

	core.SortFused(results)
	return results
}

// filterConjunction keeps only people whose candidate set covers every
// conjunction group. A person's values for the facet are gathered across
// all their chunks; each group must be hit by at least one value.
func filterConjunction(facet core.Facet, groups []core.ConjunctionGroup, cands []core.Candidate) []core.Candidate {
	key := facetMetadataKey(facet)
	if key == "" {
		return cands
	}

	personValues := make(map[string][]string)
	for _, c := range cands {
		if v := strings.ToLower(c.Metadata[key]); v != "" {
			personValues[c.PersonID] = append(personValues[c.PersonID], v)
		}
	}

	valid := make(map[string]bool)
	for personID, values := range personValues {
		matched := 0
		for _, group := range groups {
			if groupMatches(group, values) {
				matched++
			}
		}
		if matched == len(groups) {
			valid[personID] = true
		}
	}

	filtered := make([]core.Candidate, 0, len(cands))
	for _, c := range cands {
		if valid[c.PersonID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// groupMatches reports whether any of the person's values hits any of the
// group's variations, by substring in either direction.
func groupMatches(group core.ConjunctionGroup, values []string) bool {
	for _, variation := range group.Variations {
		v := strings.ToLower(variation)
		for _, value := range values {
			if strings.Contains(value, v) || strings.Contains(v, value) {
				return true
			}
		}
	}
	return false
}

// facetMetadataKey names the metadata field carrying the facet's exact
// value on each chunk. Facets without one can't verify conjunctions.
func facetMetadataKey(facet core.Facet) string {
	switch facet {
	case core.FacetEducation:
		return "school"
	case core.FacetCompanies:
		return "companies"
	case core.FacetLocation:
		return "location"
	}
	return ""
}

// bestPerPerson collapses candidates to the best score per person.
func bestPerPerson(cands []core.Candidate) map[string]float64 {
	best := make(map[string]float64)
	for _, c := range cands {
		if s, ok := best[c.PersonID]; !ok || c.Score > s {
			best[c.PersonID] = c.Score
		}
	}
	return best
}

// normalizeScores min-max normalizes scores in place to [0, 1]. A facet
// where every survivor scored identically contributes 1.0 for each; the
// facet still passed them, it just can't rank them.
func normalizeScores(scores map[string]float64) {
	if len(scores) == 0 {
		return
	}
	min, max := 0.0, 0.0
	first := true
	for _, s := range scores {
		if first {
			min, max = s, s
			first = false
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	span := max - min
	for id, s := range scores {
		if span == 0 {
			scores[id] = 1.0
			continue
		}
		scores[id] = (s - min) / span
	}
}

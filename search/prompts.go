package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/bracee/core"
)

const rerankSystemPrompt = `You are a relevance judge for a people search system.
Score each candidate on how well they match the query intent.

SCORING RULES:
1. Score 0.0-1.0 where 1.0 is perfect match
2. Education queries: candidate MUST have studied at the mentioned school (not just worked there)
3. Skill queries: look for evidence in headline, role titles, and company context
4. Location queries: current location must match
5. Company queries: must have worked at the company
6. Be STRICT about AND logic - if query says "Stanford AND MIT", score 0 if missing either
7. For OR logic, having any one match is sufficient

Output JSON array with scores and brief explanations:
[{"index": 0, "score": 0.85, "reason": "Stanford grad, has ML experience"}, ...]`

// rerankUserPrompt renders the query, its interpretation, and the candidate
// profile summaries for the judge.
func rerankUserPrompt(rawQuery string, interp *core.Interpretation, profiles []*core.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Query: %q\n\nParsed Intent:\n", rawQuery)
	writeIntentLine(&b, "Education", interp, core.FacetEducation)
	writeIntentLine(&b, "Skills", interp, core.FacetSkills)
	writeIntentLine(&b, "Companies", interp, core.FacetCompanies)
	writeIntentLine(&b, "Locations", interp, core.FacetLocation)

	b.WriteString("\nCandidates:\n")
	for i, p := range profiles {
		fmt.Fprintf(&b, `
Candidate %d (ID: %s):
- Name: %s
- Headline: %s
- Location: %s
- Education: %s
- Companies: %s
- Current Role: %s
`, i+1, p.ID, p.Name, p.Headline, p.Location,
			strings.Join(p.Education, ", "), strings.Join(p.Companies, ", "), p.CurrentRole)
	}

	b.WriteString("\nScore each candidate. Return ONLY valid JSON array.")
	return b.String()
}

const evalSystemPrompt = `You are evaluating search result quality. Be critical and identify issues.

Check for these problems:
1. EDUCATION LEAKAGE: a person surfacing for a school query because colleagues attended it, not them
2. SKILL MISMATCH: someone without the requested skills appearing for a skill query
3. AND/OR CONFUSION: if the query said "A and B", results containing people with only A or only B
4. LOCATION MISMATCH: wrong city or country
5. SEMANTIC GAPS: relevant people missed due to different terminology

Output JSON:
{
    "overall_score": 0-10,
    "precision": 0-1 (what fraction of results are relevant),
    "issues": ["list of specific issues found"],
    "feedback": "detailed feedback for improvement",
    "suggestions": ["specific suggestions to improve retrieval"]
}`

// evalUserPrompt renders the query, its interpretation, and the result
// summary lines for the quality judge.
func evalUserPrompt(rawQuery string, interp *core.Interpretation, summaries []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Query: %q\n\nParsed Intent:\n", rawQuery)
	writeIntentLine(&b, "Education", interp, core.FacetEducation)
	writeIntentLine(&b, "Skills", interp, core.FacetSkills)
	writeIntentLine(&b, "Companies", interp, core.FacetCompanies)
	writeIntentLine(&b, "Locations", interp, core.FacetLocation)

	b.WriteString("\nTop Results:\n")
	for _, s := range summaries {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	b.WriteString("\nEvaluate these results. Return ONLY valid JSON.")
	return b.String()
}

func writeIntentLine(b *strings.Builder, label string, interp *core.Interpretation, facet core.Facet) {
	fq := interp.Facets[facet]
	logic := fq.Logic
	if logic == "" {
		logic = core.LogicOr
	}
	fmt.Fprintf(b, "- %s filter: [%s] (logic: %s)\n", label, strings.Join(fq.Terms, ", "), logic)
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/bracee/core"
)

const (
	maxRoles     = 5
	maxBioChars  = 300
	maxDescChars = 500
)

// chunk is one embeddable text fragment destined for a facet namespace.
// Its ID is stable per (facet, person, ordinal), so re-ingesting the same
// record overwrites rather than accumulates.
type chunk struct {
	id       string
	facet    core.Facet
	text     string
	metadata map[string]string
}

func chunkID(facet core.Facet, personID string, ordinal int) string {
	return fmt.Sprintf("%s:%s:%d", facet, personID, ordinal)
}

// buildChunks extracts every facet chunk a person record yields. Records
// with no data for a facet simply produce no chunk there.
func buildChunks(record *core.PersonRecord) []chunk {
	chunks := educationChunks(record)
	if c := skillsChunk(record); c != nil {
		chunks = append(chunks, *c)
	}
	if c := companiesChunk(record); c != nil {
		chunks = append(chunks, *c)
	}
	if c := locationChunk(record); c != nil {
		chunks = append(chunks, *c)
	}
	chunks = append(chunks, freeTextChunk(record))
	return chunks
}

// educationChunks yields one chunk per school. Blank and "*" placeholder
// school names are skipped.
func educationChunks(record *core.PersonRecord) []chunk {
	var chunks []chunk
	for _, edu := range record.Education {
		school := strings.TrimSpace(edu.School)
		if school == "" || school == "*" {
			continue
		}

		var sb strings.Builder
		sb.WriteString(school)
		if edu.Degree != "" {
			sb.WriteString(", ")
			sb.WriteString(edu.Degree)
		}
		if edu.Field != "" {
			sb.WriteString(" in ")
			sb.WriteString(edu.Field)
		}

		chunks = append(chunks, chunk{
			id:    chunkID(core.FacetEducation, record.ID, len(chunks)),
			facet: core.FacetEducation,
			text:  sb.String(),
			metadata: map[string]string{
				"person_id": record.ID,
				"name":      record.Name,
				"school":    school,
				"degree":    edu.Degree,
				"field":     edu.Field,
			},
		})
	}
	return chunks
}

// skillsChunk summarizes headline, roles and bio into one skills text.
func skillsChunk(record *core.PersonRecord) *chunk {
	var titles []string
	for _, exp := range record.WorkExperience {
		if exp.Title != "" {
			titles = append(titles, exp.Title)
		}
	}
	if len(titles) > maxRoles {
		titles = titles[:maxRoles]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Skills and expertise: %s. ", record.Headline)
	fmt.Fprintf(&sb, "Roles: %s. ", strings.Join(titles, ", "))
	if record.Bio != "" {
		fmt.Fprintf(&sb, "Background: %s", truncate(record.Bio, maxBioChars))
	}

	return &chunk{
		id:    chunkID(core.FacetSkills, record.ID, 0),
		facet: core.FacetSkills,
		text:  sb.String(),
		metadata: map[string]string{
			"person_id": record.ID,
			"name":      record.Name,
		},
	}
}

// companiesChunk summarizes the work history. Nil when the record has no
// company names at all.
func companiesChunk(record *core.PersonRecord) *chunk {
	var companies []string
	var roles []string
	for _, exp := range record.WorkExperience {
		if exp.Company != "" {
			companies = append(companies, exp.Company)
		}
		if exp.Title != "" {
			roles = append(roles, fmt.Sprintf("%s at %s", exp.Title, exp.Company))
		}
	}
	if len(companies) == 0 {
		return nil
	}
	if len(roles) > maxRoles {
		roles = roles[:maxRoles]
	}

	text := fmt.Sprintf("Work experience at: %s. Roles: %s",
		strings.Join(companies, ", "), strings.Join(roles, ", "))

	return &chunk{
		id:    chunkID(core.FacetCompanies, record.ID, 0),
		facet: core.FacetCompanies,
		text:  text,
		metadata: map[string]string{
			"person_id": record.ID,
			"name":      record.Name,
			"companies": strings.Join(dedupeStrings(companies), ", "),
		},
	}
}

// locationChunk embeds the profile location. Nil when the record has none.
func locationChunk(record *core.PersonRecord) *chunk {
	if record.Location == "" {
		return nil
	}
	return &chunk{
		id:    chunkID(core.FacetLocation, record.ID, 0),
		facet: core.FacetLocation,
		text:  fmt.Sprintf("Located in: %s", record.Location),
		metadata: map[string]string{
			"person_id": record.ID,
			"name":      record.Name,
			"location":  record.Location,
		},
	}
}

// freeTextChunk concatenates the whole record into one catch-all text for
// queries that don't map onto a structured facet.
func freeTextChunk(record *core.PersonRecord) chunk {
	parts := []string{
		fmt.Sprintf("Name: %s.", record.Name),
		fmt.Sprintf("Headline: %s.", record.Headline),
		fmt.Sprintf("Bio: %s.", record.Bio),
		fmt.Sprintf("Location: %s.", record.Location),
	}
	for _, exp := range record.WorkExperience {
		parts = append(parts, fmt.Sprintf("%s at %s. %s",
			exp.Title, exp.Company, truncate(exp.Description, maxDescChars)))
	}
	for _, edu := range record.Education {
		parts = append(parts, fmt.Sprintf("Studied %s %s at %s.",
			edu.Degree, edu.Field, edu.School))
	}

	return chunk{
		id:    chunkID(core.FacetFreeText, record.ID, 0),
		facet: core.FacetFreeText,
		text:  strings.Join(parts, " "),
		metadata: map[string]string{
			"person_id": record.ID,
			"name":      record.Name,
		},
	}
}

// buildProfile derives the stored display/rerank summary from a record.
func buildProfile(record *core.PersonRecord) *core.Profile {
	var education []string
	for _, edu := range record.Education {
		school := strings.TrimSpace(edu.School)
		if school == "" || school == "*" {
			continue
		}
		education = append(education, school)
	}

	var companies []string
	var currentRole string
	for i, exp := range record.WorkExperience {
		if exp.Company != "" {
			companies = append(companies, exp.Company)
		}
		// The first entry is the current position by input convention.
		if i == 0 && exp.Title != "" {
			currentRole = fmt.Sprintf("%s at %s", exp.Title, exp.Company)
		}
	}

	return &core.Profile{
		ID:          record.ID,
		Name:        record.Name,
		Headline:    record.Headline,
		Location:    record.Location,
		CurrentRole: currentRole,
		Education:   education,
		Companies:   dedupeStrings(companies),
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// dedupeStrings removes duplicates preserving first-seen order.
func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

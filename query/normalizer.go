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


package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/bracee/ai"
	"github.com/poiesic/bracee/aliases"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/llmjson"
	"github.com/poiesic/bracee/retry"
)

// Normalizer turns raw queries into structured interpretations via the LLM,
// with alias enrichment and caching on top.
//
// Normalize fails only on invalid input or caller cancellation. When the
// model is unreachable or keeps returning undecodable output, the whole
// query degrades to a free-text interpretation instead of erroring, so
// search stays available without the LLM.
type Normalizer struct {
	completer ai.Completer
	cache     *InterpretationCache
	policy    retry.Policy
	logger    *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithCache sets a custom interpretation cache.
func WithCache(cache *InterpretationCache) Option {
	return func(n *Normalizer) error {
		n.cache = cache
		return nil
	}
}

// WithRetryPolicy sets the retry policy for LLM calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(n *Normalizer) error {
		n.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) error {
		n.logger = logger.With("component", "query-normalizer")
		return nil
	}
}

// NewNormalizer creates a normalizer backed by the given completer.
func NewNormalizer(completer ai.Completer, opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		completer: completer,
		cache:     NewInterpretationCache(defaultCacheCapacity),
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default().With("component", "query-normalizer"),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Cache returns the normalizer's interpretation cache.
func (n *Normalizer) Cache() *InterpretationCache {
	return n.cache
}

// Normalize interprets a raw query. Returns core.ErrInvalidQuery for blank
// input and the context error when the caller cancels; any other failure
// mode yields a degraded interpretation, never an error.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (*core.Interpretation, error) {
	trimmed, err := core.ValidateQuery(raw)
	if err != nil {
		return nil, err
	}

	if cached, ok := n.cache.Get(trimmed); ok {
		n.logger.Debug("interpretation cache hit", "query", trimmed)
		return cached, nil
	}

	var interp *core.Interpretation
	err = n.policy.Do(ctx, func() error {
		response, err := n.completer.Complete(ctx, systemPrompt(), userPrompt(trimmed))
		if err != nil {
			return err
		}
		interp, err = decodeInterpretation(trimmed, response)
		return err
	})
	if err != nil {
		// A cancelled caller wants out, not a degraded answer.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		n.logger.Warn("query interpretation degraded to free text", "query", trimmed, "err", err)
		return core.DegradedInterpretation(trimmed), nil
	}

	enrichInterpretation(interp)
	n.cache.Put(trimmed, interp)
	return interp, nil
}

// interpretationWire mirrors the JSON schema the model is prompted to emit.
type interpretationWire struct {
	Education       []string          `json:"education"`
	EducationLogic  string            `json:"education_logic"`
	EducationGroups []conjunctionWire `json:"education_groups"`
	Skills          []string          `json:"skills"`
	SkillsLogic     string            `json:"skills_logic"`
	Companies       []string          `json:"companies"`
	CompaniesLogic  string            `json:"companies_logic"`
	Locations       []string          `json:"locations"`
	LocationsLogic  string            `json:"locations_logic"`
	NormalizedQuery string            `json:"normalized_query"`
	RawIntent       string            `json:"raw_intent"`
}

type conjunctionWire struct {
	Canonical  string   `json:"canonical"`
	Variations []string `json:"variations"`
}

// decodeInterpretation parses the model response into an interpretation.
func decodeInterpretation(raw, response string) (*core.Interpretation, error) {
	var wire interpretationWire
	if err := json.Unmarshal([]byte(llmjson.Sanitize(response)), &wire); err != nil {
		return nil, err
	}

	normalized := wire.NormalizedQuery
	if strings.TrimSpace(normalized) == "" {
		normalized = raw
	}

	interp := &core.Interpretation{
		RawQuery:        raw,
		NormalizedQuery: normalized,
		Intent:          wire.RawIntent,
		Facets:          make(map[core.Facet]core.FacetQuery),
	}

	if len(wire.Education) > 0 {
		groups := make([]core.ConjunctionGroup, 0, len(wire.EducationGroups))
		for _, g := range wire.EducationGroups {
			if g.Canonical == "" && len(g.Variations) == 0 {
				continue
			}
			groups = append(groups, core.ConjunctionGroup{
				Canonical:  g.Canonical,
				Variations: g.Variations,
			})
		}
		interp.Facets[core.FacetEducation] = core.FacetQuery{
			Terms:  wire.Education,
			Logic:  parseLogic(wire.EducationLogic),
			Groups: groups,
		}
	}
	if len(wire.Skills) > 0 {
		interp.Facets[core.FacetSkills] = core.FacetQuery{
			Terms: wire.Skills,
			Logic: parseLogic(wire.SkillsLogic),
		}
	}
	if len(wire.Companies) > 0 {
		interp.Facets[core.FacetCompanies] = core.FacetQuery{
			Terms: wire.Companies,
			Logic: parseLogic(wire.CompaniesLogic),
		}
	}
	if len(wire.Locations) > 0 {
		interp.Facets[core.FacetLocation] = core.FacetQuery{
			Terms: wire.Locations,
			Logic: parseLogic(wire.LocationsLogic),
		}
	}

	return interp, nil
}

// parseLogic maps a wire logic string to the closed Logic set. Anything
// that isn't an explicit AND is treated as OR.
func parseLogic(s string) core.Logic {
	if strings.EqualFold(strings.TrimSpace(s), string(core.LogicAnd)) {
		return core.LogicAnd
	}
	return core.LogicOr
}

// enrichInterpretation layers the curated alias tables on top of whatever
// expansion the model produced. The model handles the open-ended cases; the
// tables guarantee the known abbreviations are always covered, even when
// the model skips them.
func enrichInterpretation(in *core.Interpretation) {
	if fq, ok := in.Facets[core.FacetEducation]; ok {
		var terms []string
		for _, t := range fq.Terms {
			terms = append(terms, aliases.SchoolVariations(t)...)
		}
		fq.Terms = dedupe(terms)
		if len(fq.Groups) == 0 {
			fq.Groups = educationGroups(fq.Terms)
		}
		in.Facets[core.FacetEducation] = fq
	}
	if fq, ok := in.Facets[core.FacetSkills]; ok {
		var terms []string
		for _, t := range fq.Terms {
			terms = append(terms, aliases.ExpandSkill(t)...)
		}
		fq.Terms = dedupe(terms)
		in.Facets[core.FacetSkills] = fq
	}
	if fq, ok := in.Facets[core.FacetCompanies]; ok {
		var terms []string
		for _, t := range fq.Terms {
			terms = append(terms, aliases.ExpandCompany(t)...)
		}
		fq.Terms = dedupe(terms)
		in.Facets[core.FacetCompanies] = fq
	}
	if fq, ok := in.Facets[core.FacetLocation]; ok {
		var terms []string
		for _, t := range fq.Terms {
			terms = append(terms, aliases.ExpandLocation(t)...)
		}
		fq.Terms = dedupe(terms)
		in.Facets[core.FacetLocation] = fq
	}
}

// educationGroups reconstructs conjunction groups from school terms when
// the model omitted them. Terms sharing a canonical school collapse into
// one group.
func educationGroups(terms []string) []core.ConjunctionGroup {
	var groups []core.ConjunctionGroup
	seen := make(map[string]bool)
	for _, t := range terms {
		canonical := aliases.CanonicalSchool(t)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		groups = append(groups, core.ConjunctionGroup{
			Canonical:  canonical,
			Variations: aliases.SchoolVariations(t),
		})
	}
	return groups
}

// dedupe removes duplicates (case-insensitive) preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

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


// Package search implements faceted people retrieval.
//
// A query flows through four stages:
//
//  1. Interpretation (query.Normalizer): the raw text becomes per-facet
//     terms with AND/OR logic and canonical school groupings.
//  2. Retrieval (Retriever): each referenced facet is embedded and queried
//     against its own vector namespace, concurrently. A failing facet is
//     marked degraded rather than failing the search.
//  3. Fusion (Fuse): per-facet candidates are conjunction-checked,
//     min-max normalized, and intersected across facets into one ranked
//     list.
//  4. Reranking (Reranker): the top fused candidates go to the completion
//     model for intent-aware rescoring. This stage fails open.
//
// The Searcher wires the stages together; SearchMonitor exposes
// per-stage hooks for debugging and evaluation tooling. The Evaluator is
// an offline LLM judge that grades finished result sets for batch quality
// runs.
package search

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


// Package query interprets raw search queries.
//
// The Normalizer sends each query through the completion model to extract
// per-facet terms, AND/OR logic, and canonical school groupings, then layers
// the curated alias tables over the model output. Successful interpretations
// are cached; identical queries (modulo case and whitespace) cost one LLM
// call total.
//
// The only error Normalize returns is core.ErrInvalidQuery for blank input.
// Model failures degrade the query to a free-text interpretation marked
// Degraded, keeping search available when the LLM is down.
package query

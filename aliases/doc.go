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


// Package aliases holds curated alias tables for schools, locations,
// skills, and companies, plus lookup helpers over them.
//
// The tables serve two roles. At query time they enrich interpretations:
// degraded or sparse LLM output still gets abbreviation expansion (blr ->
// Bangalore, Bengaluru) and canonical school grouping. At prompt-build time
// PromptContext seeds the normalizer's system prompt with a sample of the
// tables so the model uses consistent canonical identifiers.
package aliases

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


// Package core defines the domain model for Bracee people search.
//
// The central types are:
//
//   - Facet: the closed set of semantic dimensions (education, skills,
//     companies, location, free_text). Each facet maps to one isolated
//     vector namespace.
//   - PersonRecord: the immutable ingestion input.
//   - Interpretation: the structured, facet-decomposed understanding of a
//     raw query, including per-facet expansion terms, AND/OR logic, and
//     conjunction groups.
//   - Candidate, FusedResult, FinalResult: the intermediate and final
//     shapes flowing through retrieval, fusion and reranking.
//
// Validation helpers enforce the domain rules shared by ingestion and
// retrieval.
package core

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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuery indicates an empty or malformed raw query. It is the
	// only pipeline error surfaced directly to the caller.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidPersonRecord indicates a PersonRecord failed validation.
	ErrInvalidPersonRecord = errors.New("invalid person record")

	// ErrEmptyPersonID indicates the record identifier is empty.
	ErrEmptyPersonID = errors.New("person id cannot be empty")

	// ErrEmptyPersonName indicates the record name is empty.
	ErrEmptyPersonName = errors.New("person name cannot be empty")

	// ErrUnknownFacet indicates a facet outside the closed facet set.
	ErrUnknownFacet = errors.New("unknown facet")
)

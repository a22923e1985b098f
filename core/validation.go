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

import (
	"fmt"
	"strings"
)

// ValidatePersonRecord validates a PersonRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Name must not be empty
//
// Headline, bio, location, work experience and education are all optional;
// the ingestion pipeline simply skips the facet chunks it cannot build.
func ValidatePersonRecord(record *PersonRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPersonRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPersonRecord, ErrEmptyPersonID)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPersonRecord, ErrEmptyPersonName)
	}

	return nil
}

// ValidateQuery trims the raw query and rejects empty input.
// Returns the trimmed query on success.
func ValidateQuery(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidQuery
	}
	return trimmed, nil
}

// ValidateFacet validates that a facet belongs to the closed facet set.
func ValidateFacet(f Facet) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFacet, f)
	}
	return nil
}

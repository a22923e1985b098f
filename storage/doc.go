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


// Package storage provides the storage abstraction layer for bracee.
//
// This package defines repository interfaces that decouple storage
// implementation from search logic. It allows for different storage backends
// (BadgerDB, in-memory, hosted vector databases) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	store, err := badger.NewVectorStore(backend)  // returns storage.VectorStore interface
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to BadgerDB specifics
//   - Swappability: Easy to add alternative backends (Pinecone, pgvector, etc.)
//   - Testing: Consumers can use mock implementations without modification
//
// # Architecture
//
// The storage layer has two surfaces:
//
//   - VectorStore: Embedded chunks, partitioned by facet namespace. The
//     namespace boundary is the isolation guarantee the retrieval layer
//     builds on: a skills query can never surface an education chunk.
//   - ProfileRepository: Full person profiles, keyed by person ID, read
//     back during reranking and result assembly.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines; retrieval fans out across facets in parallel.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage

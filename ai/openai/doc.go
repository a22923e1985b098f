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


// Package openai provides ai interface implementations backed by
// OpenAI-compatible APIs (OpenAI, OpenRouter, Ollama, LocalAI, vLLM).
//
// The package uses langchaingo clients under the hood. Completions run in
// JSON mode at low temperature; the consuming packages (query, search)
// validate the structure of every response before trusting it.
package openai

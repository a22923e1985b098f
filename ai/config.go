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


package ai

import (
	"fmt"
	"strings"
)

const defaultHost = "http://localhost:11434/v1"

// Config holds connection settings for the AI services. Embedding and
// completion can point at different hosts; local setups typically share one
// OpenAI-compatible server for both.
type Config struct {
	// EmbeddingHost is the base URL of the embedding service.
	EmbeddingHost string

	// CompletionHost is the base URL of the completion service used for
	// query normalization and reranking.
	CompletionHost string

	// EmbeddingModel is the embedding model identifier,
	// e.g. "embeddinggemma" or "text-embedding-3-small".
	EmbeddingModel string

	// CompletionModel is the completion model identifier,
	// e.g. "qwen2.5:3b" or "gpt-4o-mini".
	CompletionModel string

	// Token is the API token sent to both services. Local services that
	// skip authentication accept any value; the default is "none".
	Token string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) { c.EmbeddingHost = host }
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) { c.CompletionHost = host }
}

// WithHost sets both embedding and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.CompletionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) { c.EmbeddingModel = model }
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) { c.CompletionModel = model }
}

// WithToken sets the API token for both services.
func WithToken(token string) ConfigOption {
	return func(c *Config) { c.Token = token }
}

// DefaultConfig returns a Config aimed at a local OpenAI-compatible server
// serving both embedding and completion.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:   defaultHost,
		CompletionHost:  defaultHost,
		EmbeddingModel:  "embeddinggemma",
		CompletionModel: "qwen2.5:3b",
		Token:           "none",
	}
}

// NewConfig creates a Config from the defaults and the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form: hosts get the /v1
// suffix most OpenAI-compatible servers (Ollama, LocalAI, vLLM) expect, and
// an empty token becomes "none".
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.CompletionHost = normalizeHost(c.CompletionHost)
	if c.Token == "" {
		c.Token = "none"
	}
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate normalizes the configuration and checks it is complete.
func (c *Config) Validate() error {
	c.Normalize()

	for field, value := range map[string]string{
		"EmbeddingHost":   c.EmbeddingHost,
		"CompletionHost":  c.CompletionHost,
		"EmbeddingModel":  c.EmbeddingModel,
		"CompletionModel": c.CompletionModel,
	} {
		if value == "" {
			return fmt.Errorf("ai config: %s is required", field)
		}
	}
	return nil
}

// Package config loads engine configuration from YAML files with sane
// defaults. A missing config file is not an error; every section falls back
// to defaults tuned for a local Ollama setup and an on-disk BadgerDB.
package config

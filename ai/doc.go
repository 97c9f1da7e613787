// Package ai defines the embedding provider interface consumed by the
// retrieval core, along with its configuration.
//
// Concrete implementations live in subpackages: openai provides an
// OpenAI-compatible client (Ollama, LocalAI, vLLM, hosted OpenAI), and mock
// provides a deterministic embedder for tests.
package ai

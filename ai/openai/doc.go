// Package openai provides an ai.Embedder backed by OpenAI-compatible
// embedding APIs. It works with any service that speaks the OpenAI
// embeddings protocol, including Ollama, LocalAI, and vLLM.
package openai

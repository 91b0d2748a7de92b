// Package llm talks to chat-completion language models. It supports
// OpenAI-compatible endpoints (OpenAI, Groq) and Anthropic, and wraps them
// with rate limiting, retries and response caching for transaction
// classification.
package llm

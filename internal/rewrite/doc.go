// Package rewrite asks a language model for a cleaned version of a code
// snippet.
//
// New builds a Rewriter for the configured provider:
//
//   - openai: OpenAI chat completions (github.com/openai/openai-go)
//   - anthropic: Anthropic messages (github.com/anthropics/anthropic-sdk-go)
//   - gemini: Google Gemini (github.com/google/generative-ai-go)
//   - compatible: any OpenAI-compatible HTTP endpoint, such as a local
//     model server
//
// Rewriters return the model text as-is. Normalize prepares it for
// insertion into a document.
package rewrite

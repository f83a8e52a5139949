// Package llmmin compacts crawled documentation into a schema-driven,
// machine-parsable summary suitable for use as LLM context. It splits raw
// text into token-budgeted chunks, drives a sequential extract-then-merge
// process against an external summarization model, and persists checkpoints
// so interrupted documents resume without repeating paid model calls.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, duckduckgo/).
package llmmin

// Package locsearch provides a multi-source search aggregator.
// It queries several external retrieval services concurrently under rate
// limits, enriches raw hits with AI-assisted extraction, deduplicates them
// across sources and produces a filterable result set with a digest.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, tavily/).
package locsearch

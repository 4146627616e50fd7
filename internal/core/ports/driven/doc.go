// Package driven defines the outbound ports of the core: capability
// interfaces the pipeline consumes but does not implement. Adapters for
// hosted model APIs, web search, extraction and storage live under
// internal/adapters/driven and satisfy these interfaces.
//
// Generator, EmbeddingService and WebSearch are optional capabilities:
// a nil service means "Unavailable", and the services layer fails fast
// with the matching domain sentinel error instead of calling through.
package driven

// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// AI capabilities (generation, embeddings, web search) are passed in
// as driven ports and may be nil when unconfigured; each service
// degrades or fails fast with a named domain error accordingly.
package services

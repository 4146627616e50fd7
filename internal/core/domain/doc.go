// Package domain contains the core business entities and errors for the
// document demystification pipeline: documents and their chunks, analysis
// reports, sessions, and provider settings. It has no dependencies on
// adapters or external services.
package domain

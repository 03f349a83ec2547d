// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (app.go, plugin.go, task.go, errors.go) hold shared types and the
// consumer-side interfaces implemented by adapters. No implementation code - just contracts.
package domain

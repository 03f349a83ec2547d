// Package plugin holds the provider, check and notifier registries and validates
// plugin configurations against their declared option schemas.
//
// Each category has its own Registry. A Category pairs a registry with the error names
// reported for it, so the same validation runs for all three categories.
package plugin

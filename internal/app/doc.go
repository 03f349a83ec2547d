// Package app provides the application service layer.
//
// Orchestrates the app use cases: detail reads, validated updates and asynchronous deletion.
// Sits between HTTP handlers and domain ports. Depends on domain interfaces, not concrete implementations.
package app

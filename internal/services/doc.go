// Package services defines the shared error taxonomy and context annotations
// used across cardpress components. Components below the export orchestrator
// fail fast with a tagged sentinel; the orchestrator's single catch boundary
// decides the user-visible outcome.
package services

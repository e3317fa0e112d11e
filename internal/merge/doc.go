// Package merge concatenates rendered batch artifacts into the single
// deliverable document for an export.
package merge

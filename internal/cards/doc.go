// Package cards models the printable faces of an export job and resolves
// back faces for fronts, substituting blank placeholders when a linked back
// is missing.
package cards

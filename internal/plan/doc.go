// Package plan turns a front sequence and its resolved backs into the sheet
// sequences an export mode prints, including the row-local mirroring that
// keeps duplex backs aligned under their fronts after a sheet flip.
package plan

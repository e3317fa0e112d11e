// Package preflight runs environment checks before an export starts:
// directory access, staging free space, and external binary availability.
package preflight

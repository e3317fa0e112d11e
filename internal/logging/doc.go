// Package logging builds the slog loggers used throughout cardpress and
// provides the attribute helpers and standardized field names shared by all
// components.
package logging

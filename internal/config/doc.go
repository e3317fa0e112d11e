// Package config loads, validates, and normalizes the cardpress TOML
// configuration file.
package config

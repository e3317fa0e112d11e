// Package deck loads TOML deck manifests: the ordered card list, the back
// designs they reference, and the optional deck-wide default back.
package deck

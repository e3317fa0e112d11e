package config

// DefaultPixelBudget caps the pixel count rendered into one intermediate
// artifact. 2e9 pixels keeps peak compositor memory bounded on large jobs.
const DefaultPixelBudget int64 = 2_000_000_000

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  "~/cardpress",
			StagingDir: "~/.local/share/cardpress/staging",
			LogDir:     "~/.local/share/cardpress/logs",
		},
		Output: Output{
			FilePrefix:   "cards",
			Columns:      3,
			Rows:         3,
			PageWidthPx:  2550,
			PageHeightPx: 3300,
			PixelBudget:  DefaultPixelBudget,
		},
		Compositor: Compositor{
			Binary:         "cardcomp",
			TimeoutSeconds: 0,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Exports:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants that would otherwise surface as
// export failures long after startup.
func (c *Config) Validate() error {
	var problems []string

	if c.Output.Columns < 1 {
		problems = append(problems, fmt.Sprintf("output.columns must be at least 1 (got %d)", c.Output.Columns))
	}
	if c.Output.Rows < 1 {
		problems = append(problems, fmt.Sprintf("output.rows must be at least 1 (got %d)", c.Output.Rows))
	}
	if c.Output.PageWidthPx <= 0 {
		problems = append(problems, fmt.Sprintf("output.page_width_px must be positive (got %d)", c.Output.PageWidthPx))
	}
	if c.Output.PageHeightPx <= 0 {
		problems = append(problems, fmt.Sprintf("output.page_height_px must be positive (got %d)", c.Output.PageHeightPx))
	}
	if c.Notifications.RequestTimeout < 0 {
		problems = append(problems, "notifications.request_timeout must not be negative")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json (got %q)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

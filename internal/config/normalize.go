package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Output.FilePrefix = strings.TrimSpace(c.Output.FilePrefix)
	if c.Output.FilePrefix == "" {
		c.Output.FilePrefix = "cards"
	}
	if c.Output.PixelBudget <= 0 {
		c.Output.PixelBudget = DefaultPixelBudget
	}

	c.Compositor.Binary = strings.TrimSpace(c.Compositor.Binary)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeCopy()
	c.normalizeTools()
	c.normalizeVideo()
	c.normalizeLogging()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCopy() {
	c.Copy.Compare = strings.ToLower(strings.TrimSpace(c.Copy.Compare))
	if c.Copy.Compare == "" {
		c.Copy.Compare = CompareSize
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = defaultIfBlank(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.Jhead = defaultIfBlank(c.Tools.Jhead, defaultJhead)
	c.Tools.Exiftool = defaultIfBlank(c.Tools.Exiftool, defaultExiftool)
	c.Tools.Cp = defaultIfBlank(c.Tools.Cp, defaultCp)
	c.Tools.ExifWriter = strings.ToLower(defaultIfBlank(c.Tools.ExifWriter, WriterJhead))
}

func (c *Config) normalizeVideo() {
	c.Video.Reader = strings.ToLower(defaultIfBlank(c.Video.Reader, VideoReaderAuto))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func defaultIfBlank(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCopy(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCopy() error {
	if c.Copy.MinSize < 0 {
		return errors.New("copy.min_size must be >= 0")
	}
	switch c.Copy.Compare {
	case CompareSize, CompareHash:
	default:
		return fmt.Errorf("copy.compare must be %q or %q, got %q", CompareSize, CompareHash, c.Copy.Compare)
	}
	return nil
}

func (c *Config) validateTools() error {
	switch c.Tools.ExifWriter {
	case WriterJhead, WriterExiftool:
	default:
		return fmt.Errorf("tools.exif_writer must be %q or %q, got %q", WriterJhead, WriterExiftool, c.Tools.ExifWriter)
	}
	return nil
}

func (c *Config) validateVideo() error {
	switch c.Video.Reader {
	case VideoReaderAuto, VideoReaderFFprobe, VideoReaderMP4:
	default:
		return fmt.Errorf("video.reader must be one of auto, ffprobe, mp4; got %q", c.Video.Reader)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"phototools/internal/config"
	"phototools/internal/deps"
	"phototools/internal/logging"
	"phototools/internal/media/ffprobe"
	"phototools/internal/media/mp4meta"
	"phototools/internal/timestamp"
)

type globalFlags struct {
	verbose    bool
	trace      bool
	configPath string
	logFormat  string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the run logger. -w wins over -v, and both win over the
// configured level.
func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level := cfg.Logging.Level
	switch {
	case c.flags.trace:
		level = "trace"
	case c.flags.verbose:
		level = "debug"
	}
	format := cfg.Logging.Format
	if strings.TrimSpace(c.flags.logFormat) != "" {
		format = c.flags.logFormat
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: w})
}

// containerReader picks the video metadata source named by video.reader.
func containerReader(cfg *config.Config, logger *slog.Logger) timestamp.ContainerReader {
	switch cfg.Video.Reader {
	case config.VideoReaderFFprobe:
		return ffprobe.New(cfg.Tools.FFprobe, nil)
	case config.VideoReaderMP4:
		return mp4meta.Reader{}
	}
	if deps.Available(cfg.Tools.FFprobe) {
		return ffprobe.New(cfg.Tools.FFprobe, nil)
	}
	logger.Debug("ffprobe not found; reading mp4 boxes in-process",
		logging.String("ffprobe", cfg.Tools.FFprobe),
	)
	return mp4meta.Reader{}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

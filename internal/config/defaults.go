package config

const (
	defaultConfigPath  = "~/.config/phototools/config.toml"
	projectConfigName  = "phototools.toml"
	defaultJournalPath = "~/.local/share/phototools/journal.db"
	defaultMinSize     = 500
	defaultFFprobe     = "ffprobe"
	defaultJhead       = "jhead"
	defaultExiftool    = "exiftool"
	defaultCp          = "cp"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Duplicate comparison modes.
const (
	CompareSize = "size"
	CompareHash = "hash"
)

// Metadata writers.
const (
	WriterJhead    = "jhead"
	WriterExiftool = "exiftool"
)

// Video metadata readers.
const (
	VideoReaderAuto    = "auto"
	VideoReaderFFprobe = "ffprobe"
	VideoReaderMP4     = "mp4"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Copy: Copy{
			MinSize: defaultMinSize,
			Compare: CompareSize,
		},
		Tools: Tools{
			FFprobe:    defaultFFprobe,
			Jhead:      defaultJhead,
			Exiftool:   defaultExiftool,
			Cp:         defaultCp,
			ExifWriter: WriterJhead,
		},
		Video: Video{
			Reader: VideoReaderAuto,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Journal: Journal{
			Path: defaultJournalPath,
		},
	}
}

package timestamp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"phototools/internal/logging"
	"phototools/internal/media"
	"phototools/internal/media/exiftags"
	"phototools/internal/media/ffprobe"
	"phototools/internal/media/fstime"
	"phototools/internal/services"
)

// ContainerReader produces a text dump of a video container's metadata.
type ContainerReader interface {
	Dump(ctx context.Context, path string) (string, error)
}

// Resolver runs the per-kind resolution chains.
type Resolver struct {
	photos   exiftags.Reader
	videos   ContainerReader
	fileTime func(path string) (time.Time, error)
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPhotoReader overrides the EXIF tag reader.
func WithPhotoReader(reader exiftags.Reader) Option {
	return func(r *Resolver) {
		if reader != nil {
			r.photos = reader
		}
	}
}

// WithContainerReader overrides the video metadata source.
func WithContainerReader(reader ContainerReader) Option {
	return func(r *Resolver) {
		if reader != nil {
			r.videos = reader
		}
	}
}

// WithFileTime overrides the filesystem time lookup.
func WithFileTime(fn func(path string) (time.Time, error)) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.fileTime = fn
		}
	}
}

// WithLogger sets the logger used for per-step trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New constructs a Resolver reading photos with goexif, videos with ffprobe
// and filesystem times from the file's birth or modification time.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		photos:   exiftags.GoexifReader{},
		videos:   ffprobe.New("", nil),
		fileTime: fstime.CaptureTime,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "timestamp")
	return r
}

// Resolve dispatches on the file's kind. Unsupported kinds are an ErrInvalidData error.
func (r *Resolver) Resolve(ctx context.Context, src media.SourceFile) (Resolved, error) {
	switch src.Kind {
	case media.Photo:
		return r.Photo(ctx, src.Path)
	case media.Video:
		return r.Video(ctx, src.Path)
	default:
		return Resolved{}, services.Wrap(services.ErrInvalidData, "timestamp", "resolve", "unsupported media kind "+src.Kind.String(), nil)
	}
}

// Photo resolves a photo's capture time. Only a failure of the final
// filesystem step is returned as an error.
func (r *Resolver) Photo(ctx context.Context, path string) (Resolved, error) {
	logger := logging.WithContext(ctx, r.logger)

	tags, err := r.photos.Read(path)
	if err != nil {
		logging.Trace(ctx, logger, "exif tags unavailable", logging.Error(err))
	}
	if t, source, ok := timeFromTags(tags); ok {
		return r.found(ctx, logger, Resolved{Time: t, Provenance: FromMetadata, HasDateTag: true, Source: source})
	}
	if tags.HasDateTag() {
		logging.Trace(ctx, logger, "exif date tags present but unparseable",
			logging.String("gps_date", tags.GPSDate),
			logging.String("gps_time", tags.GPSTime),
			logging.String("date_time_original", tags.DateTimeOriginal),
			logging.String("date_time", tags.DateTime),
		)
	}

	resolved, err := r.inferred(ctx, logger, path, media.Photo)
	resolved.HasDateTag = tags.HasDateTag()
	return resolved, err
}

// Video resolves a video's capture time. A metadata tool that fails to run is
// treated as an empty dump.
func (r *Resolver) Video(ctx context.Context, path string) (Resolved, error) {
	logger := logging.WithContext(ctx, r.logger)

	dump, err := r.videos.Dump(ctx, path)
	if err != nil {
		logger.Debug("container metadata unavailable", logging.Error(err))
	}
	if t, source, ok := timeFromDump(dump); ok {
		return r.found(ctx, logger, Resolved{Time: t, Provenance: FromMetadata, Source: source})
	}
	logging.Trace(ctx, logger, "no creation date in container metadata")

	return r.inferred(ctx, logger, path, media.Video)
}

func (r *Resolver) inferred(ctx context.Context, logger *slog.Logger, path string, kind media.Kind) (Resolved, error) {
	if t, ok := DateFromFilename(filepath.Base(path), kind); ok {
		return r.found(ctx, logger, Resolved{Time: t, Provenance: Inferred, Source: SourceFilename})
	}
	logging.Trace(ctx, logger, "filename carries no date")

	t, err := r.fileTime(path)
	if err != nil {
		return Resolved{}, fmt.Errorf("filesystem time: %w", err)
	}
	return r.found(ctx, logger, Resolved{Time: t, Provenance: Inferred, Source: SourceFilesystem})
}

func (r *Resolver) found(ctx context.Context, logger *slog.Logger, resolved Resolved) (Resolved, error) {
	resolved.Time = resolved.Time.UTC().Truncate(time.Second)
	logging.Trace(ctx, logger, "timestamp resolved",
		logging.String("step", resolved.Source),
		logging.String(logging.FieldProvenance, resolved.Provenance.String()),
		logging.Time("timestamp", resolved.Time),
	)
	return resolved, nil
}

// Package media classifies source files into the photo and video kinds the
// organizer understands. Subpackages read and write the metadata each kind
// carries: exiftags for photo tags, ffprobe and mp4meta for container
// metadata, and fstime for filesystem capture times.
package media

package media

import (
	"path/filepath"
	"strings"
)

// Kind is the media category derived from a file extension.
type Kind int

const (
	Unsupported Kind = iota
	Photo
	Video
)

func (k Kind) String() string {
	switch k {
	case Photo:
		return "photo"
	case Video:
		return "video"
	default:
		return "unsupported"
	}
}

var kindsByExtension = map[string]Kind{
	"jpg":  Photo,
	"jpeg": Photo,
	"heic": Photo,
	"dng":  Photo,
	"mp4":  Video,
	"m4v":  Video,
	"mov":  Video,
}

// Extension returns the lower-cased extension of path without the leading dot.
// A dot-file such as ".profile" has no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// KindOf classifies a path by its extension.
func KindOf(path string) Kind {
	return kindsByExtension[Extension(path)]
}

// SourceFile is a candidate discovered under the source root.
type SourceFile struct {
	Path string
	Size int64
	Kind Kind
}

// NewSourceFile builds a SourceFile, classifying it from its name.
func NewSourceFile(path string, size int64) SourceFile {
	return SourceFile{Path: path, Size: size, Kind: KindOf(path)}
}

// Ext is the lower-cased extension of the file.
func (f SourceFile) Ext() string {
	return Extension(f.Path)
}

// Name is the base name of the file.
func (f SourceFile) Name() string {
	return filepath.Base(f.Path)
}

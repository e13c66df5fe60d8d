// Package ffprobe captures the human-readable metadata dump ffprobe prints for
// a media container.
//
// The dump is returned as text so callers can scan it for the tag lines they
// care about. ffprobe is invoked through a command.Runner, which keeps the
// package testable without the binary installed.
package ffprobe

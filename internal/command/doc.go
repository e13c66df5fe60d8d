// Package command provides the injectable runner used to shell out to external
// tools (ffprobe, jhead, exiftool, cp). Production code uses Exec; tests swap in
// a RunnerFunc so resolver and organizer logic can be exercised without the
// real executables present.
package command

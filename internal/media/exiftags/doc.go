// Package exiftags reads capture-date tags from photo EXIF blocks and writes
// a date back into photos that lack one.
//
// Reading happens in-process through goexif. Writing shells out to jhead or
// exiftool through a command.Runner so tests can observe the invocation
// without either tool installed.
package exiftags

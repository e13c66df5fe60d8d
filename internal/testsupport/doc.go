// Package testsupport holds fixtures shared by package tests: temp-dir
// configs, stub executables on PATH, a recording command runner, sized
// files, and synthetic EXIF blocks.
package testsupport

// Package main hosts the phototools CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the logger, and wires
// the timestamp resolver, EXIF writer and organizer for the copy command.
// Domain behaviour lives in the internal packages; commands here only
// translate flags into options and render results.
package main

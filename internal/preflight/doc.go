// Package preflight verifies the source and destination directories before a
// run, and backs the `phototools check` report.
package preflight

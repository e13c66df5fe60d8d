// Package organizer copies photos and videos into a date-based destination
// tree.
//
// For each source file it applies the size and extension filters, resolves a
// capture timestamp, derives <dest>/<YYYY>/<YYYY-MM-DD>/<name>, and walks the
// collision loop: a zero-length occupant is stale and replaced, an occupant
// of equal size (and, in hash mode, equal content) means the file was already
// copied, and anything else moves on to the next _NNN suffix. Copies of
// photos whose timestamp was inferred get the date written into their EXIF
// block before the file times are stamped.
//
// OrganizeTree drives Organize over a whole source tree and tallies the
// outcome; per-file failures are logged and counted without stopping the run.
package organizer

// Package timestamp resolves the capture time of a photo or video.
//
// Each media kind runs an ordered chain of sources and the first usable value
// wins. Photos try GPS date and time, then DateTimeOriginal, then DateTime,
// then the messaging-app filename convention, then filesystem time. Videos try
// the vendor creation date and the generic creation_time from a container
// dump, then the filename convention, then filesystem time.
//
// Every result carries a Provenance. Values read from embedded metadata are
// FromMetadata; filename and filesystem values are Inferred, which is what
// later triggers metadata backfill on copied photos.
package timestamp

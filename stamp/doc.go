// Package stamp creates local timestamp-marker files.
//
// A stamp is a zero-or-small-content local file whose modification and
// access times mirror a remote object's last-modified timestamp. Stamps act
// as lightweight presence/freshness markers for downstream tooling that
// decides what still needs processing without fetching object contents.
//
// Mirror walks a bucket prefix and fans stamp creation out over a worker
// pool; TruncateToMarker turns an already-uploaded local artifact into a
// zero-byte marker that keeps only its timestamp.
package stamp

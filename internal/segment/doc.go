// Package segment implements the interval engine behind a cut list: immutable
// Segment values, the overlap-free Set that owns them, and the compact text
// codec shared by detector sidecars and EDL documents.
//
// A Set never holds two distinct members whose closed intervals intersect.
// Every mutating operation is all-or-nothing: when it returns an error the Set
// is exactly as it was before the call.
//
// The list grammar is `(HH:MM:SS.mmm-HH:MM:SS.mmm,)*`. Encode always writes a
// trailing comma; Decode also accepts lists where the final comma is missing.
//
// Sets are not safe for concurrent mutation. Callers exposing a Set across
// goroutines serialize access per media (see internal/review).
package segment

// Package media derives the lifecycle state of recorded media files from the
// sidecar artifacts that sit next to them.
//
// State is never stored as truth: external processes move a recording forward
// by creating or removing sidecars, and Compute re-derives the state from the
// current flags every time. Snapshot lists a directory once so a whole session
// can be built from a consistent view.
package media

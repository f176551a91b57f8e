// Package api defines wire-format types and converters for the HTTP API and
// the CLI's --json output. It translates session, media and segment models
// into transport-friendly DTOs so consumers never couple to internal types.
//
// # Key Types
//
// Session: one review session with its medias keyed by stem.
//
// Media: output title, state, detector lists and current segments of one
// recorded file.
//
// Segment: start, end and duration in seconds.
//
// # Design Notes
//
// DTOs use snake_case JSON tags, the names the review front end already
// sends. Detector lists keep the key order of the segments sidecar.
// Timestamps use RFC3339 with milliseconds.
package api

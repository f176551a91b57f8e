// Package review drives the segment review of recorded media on behalf of
// the HTTP API and the CLI.
//
// A Service loads one session media from the store, applies a segment
// operation, re-derives the media state from disk and saves the row back.
// Mutations of the same media are serialized with a keyed mutex; different
// medias proceed in parallel. Failures are tagged with internal/services
// markers so adapters can map them to status codes.
package review

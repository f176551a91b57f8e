// Package session persists review sessions in SQLite.
//
// A session covers one root path and holds one Media per recorded file,
// keyed by stem. Each media lives in its own row of session_medias so that
// concurrent edits to different medias of a session never overwrite each
// other; the sessions row itself is last-write-wins.
//
// The database holds working state only. Validated decisions live in the EDL
// sidecars next to the media files, so schema changes bump schemaVersion and
// users delete the database to adopt the new schema.
package session

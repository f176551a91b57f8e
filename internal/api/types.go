package api

import "cutlist/internal/sidecar"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Segment is one kept interval in seconds.
type Segment struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Media describes one recorded file of a session.
type Media struct {
	Filepath         string                   `json:"filepath"`
	Stem             string                   `json:"stem"`
	State            string                   `json:"state"`
	Title            string                   `json:"title"`
	SkipBackup       bool                     `json:"skip_backup"`
	ImportedSegments *sidecar.DetectorResults `json:"imported_segments"`
	Segments         []Segment                `json:"segments"`
	UpdatedAt        string                   `json:"updated_at,omitempty"`
}

// Session is a review session with its medias keyed by stem.
type Session struct {
	ID        string           `json:"id"`
	RootPath  string           `json:"root_path"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
	Medias    map[string]Media `json:"medias"`
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	ID         string `json:"id"`
	RootPath   string `json:"root_path"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	MediaCount int    `json:"media_count"`
}

// SessionListResponse wraps the session listing.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool   `json:"running"`
	PID           int    `json:"pid"`
	SessionDBPath string `json:"session_db_path"`
	LockFilePath  string `json:"lock_file_path"`
	LogPath       string `json:"log_path"`
	SessionCount  int    `json:"session_count"`
}

// ValidateResponse names the written EDL.
type ValidateResponse struct {
	EDLPath string `json:"edl_path"`
}

// SnapshotResponse names the detector key under which the current segments
// were recorded.
type SnapshotResponse struct {
	DetectorKey string `json:"detector_key"`
	Media       Media  `json:"media"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	RootPath string `json:"root_path"`
}

// UpdateMediaRequest is the body of PATCH on a media. Absent fields are
// left unchanged.
type UpdateMediaRequest struct {
	Title      *string `json:"title"`
	SkipBackup *bool   `json:"skip_backup"`
}

// ImportSegmentsRequest selects a detector list to load.
type ImportSegmentsRequest struct {
	DetectorKey string `json:"detector_key"`
}

// CreateSegmentRequest places a one-second segment at Position.
type CreateSegmentRequest struct {
	Position *float64 `json:"position"`
}

// EditSegmentRequest moves one edge of a segment.
type EditSegmentRequest struct {
	NewPosition *float64 `json:"new_position"`
	Edge        string   `json:"edge"`
}

// SegmentsRequest selects segments to delete or merge.
type SegmentsRequest struct {
	Segments []Segment `json:"segments"`
}

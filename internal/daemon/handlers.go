package daemon

import (
	"net/http"
	"strconv"
	"strings"

	"cutlist/internal/api"
	"cutlist/internal/review"
	"cutlist/internal/segment"
	"cutlist/internal/services"
	"cutlist/internal/session"
)

func (s *apiServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body api.CreateSessionRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.review.CreateSession(r.Context(), body.RootPath)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FromSession(sess))
}

func (s *apiServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.review.ListSessions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SessionListResponse{Sessions: api.FromSummaries(summaries)})
}

func (s *apiServer) handleShowSession(w http.ResponseWriter, r *http.Request) {
	refresh := false
	if value := strings.TrimSpace(r.URL.Query().Get("refresh")); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			s.writeError(w, r, services.Wrap(services.ErrInvalidRequest, "api", "show session", "refresh must be a boolean", err))
			return
		}
		refresh = parsed
	}
	sess, err := s.review.GetSession(r.Context(), r.PathValue("id"), refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromSession(sess))
}

func (s *apiServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.review.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *apiServer) handleShowMedia(w http.ResponseWriter, r *http.Request) {
	m, err := s.review.GetMedia(r.Context(), r.PathValue("id"), r.PathValue("stem"))
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	var body api.UpdateMediaRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.review.UpdateMedia(r.Context(), r.PathValue("id"), r.PathValue("stem"), review.MediaUpdate{
		Title:      body.Title,
		SkipBackup: body.SkipBackup,
	})
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	path, _, err := s.review.Validate(r.Context(), r.PathValue("id"), r.PathValue("stem"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ValidateResponse{EDLPath: path})
}

func (s *apiServer) handleImportSegments(w http.ResponseWriter, r *http.Request) {
	var body api.ImportSegmentsRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(body.DetectorKey) == "" {
		s.writeError(w, r, services.Wrap(services.ErrInvalidRequest, "api", "import segments", "detector_key is required", nil))
		return
	}
	m, err := s.review.ImportDetector(r.Context(), r.PathValue("id"), r.PathValue("stem"), body.DetectorKey)
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleCreateSegment(w http.ResponseWriter, r *http.Request) {
	var body api.CreateSegmentRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Position == nil {
		s.writeError(w, r, services.Wrap(services.ErrInvalidRequest, "api", "create segment", "position is required", nil))
		return
	}
	m, err := s.review.AddSegment(r.Context(), r.PathValue("id"), r.PathValue("stem"), *body.Position)
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleEditSegment(w http.ResponseWriter, r *http.Request) {
	target, err := api.ParseSpan(r.PathValue("span"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrInvalidRequest, "api", "edit segment", "invalid segment in path", err))
		return
	}
	var body api.EditSegmentRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.NewPosition == nil {
		s.writeError(w, r, services.Wrap(services.ErrInvalidRequest, "api", "edit segment", "new_position is required", nil))
		return
	}
	edge, err := review.ParseEdge(body.Edge)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.review.EditSegment(r.Context(), r.PathValue("id"), r.PathValue("stem"), target, edge, *body.NewPosition)
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleDeleteSegments(w http.ResponseWriter, r *http.Request) {
	selected, ok := s.decodeSelection(w, r, "delete segments")
	if !ok {
		return
	}
	m, err := s.review.DeleteSegments(r.Context(), r.PathValue("id"), r.PathValue("stem"), selected)
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleMergeSegments(w http.ResponseWriter, r *http.Request) {
	selected, ok := s.decodeSelection(w, r, "merge segments")
	if !ok {
		return
	}
	m, err := s.review.MergeSegments(r.Context(), r.PathValue("id"), r.PathValue("stem"), selected)
	s.writeMedia(w, r, m, err)
}

func (s *apiServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	key, m, err := s.review.Snapshot(r.Context(), r.PathValue("id"), r.PathValue("stem"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SnapshotResponse{DetectorKey: key, Media: api.FromMedia(m)})
}

func (s *apiServer) decodeSelection(w http.ResponseWriter, r *http.Request, op string) ([]segment.Segment, bool) {
	var body api.SegmentsRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	selected, err := api.ToSegments(body.Segments)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrInvalidRequest, "api", op, "invalid segment selection", err))
		return nil, false
	}
	return selected, true
}

func (s *apiServer) writeMedia(w http.ResponseWriter, r *http.Request, m *session.Media, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromMedia(m))
}

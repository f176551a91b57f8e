package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"cutlist/internal/api"
	"cutlist/internal/config"
	"cutlist/internal/logging"
	"cutlist/internal/review"
	"cutlist/internal/services"
)

const maxRequestBody = 1 << 20

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	review  *review.Service
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
		review: d.review,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("POST /api/sessions", srv.handleCreateSession)
	mux.HandleFunc("GET /api/sessions", srv.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", srv.handleShowSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", srv.handleDeleteSession)

	const media = "/api/sessions/{id}/medias/{stem}"
	mux.HandleFunc("GET "+media, srv.handleShowMedia)
	mux.HandleFunc("PATCH "+media, srv.handleUpdateMedia)
	mux.HandleFunc("POST "+media+"/validate_segments", srv.handleValidate)
	mux.HandleFunc("POST "+media+"/segments", srv.handleCreateSegment)
	mux.HandleFunc("DELETE "+media+"/segments", srv.handleDeleteSegments)
	mux.HandleFunc("POST "+media+"/segments/import", srv.handleImportSegments)
	mux.HandleFunc("POST "+media+"/segments/merge", srv.handleMergeSegments)
	mux.HandleFunc("POST "+media+"/segments/snapshot", srv.handleSnapshot)
	mux.HandleFunc("PATCH "+media+"/segments/{span}", srv.handleEditSegment)

	srv.handler = requestMiddleware(srv.logger, authMiddleware(cfg.Paths.APIToken, mux))
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api_bind is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(ctx, s.logger, "api server error", "api_serve_failed", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status()
	payload := api.DaemonStatus{
		Running:       status.Running,
		PID:           status.PID,
		SessionDBPath: status.SessionDBPath,
		LockFilePath:  status.LockFilePath,
		LogPath:       status.LogPath,
	}
	if summaries, err := s.review.ListSessions(r.Context()); err == nil {
		payload.SessionCount = len(summaries)
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// unchanged.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return services.Wrap(services.ErrInvalidRequest, "api", "decode body", "malformed JSON body", err)
	}
	return nil
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(r.Context(), s.logger, "api request failed", "api_request_failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeJSON(w, status, api.ErrorResponse{Error: err.Error(), Kind: services.Kind(err)})
}

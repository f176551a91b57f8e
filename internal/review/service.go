package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cutlist/internal/logging"
	"cutlist/internal/media"
	"cutlist/internal/services"
	"cutlist/internal/session"
	"cutlist/internal/title"
)

const component = "review"

// Options configures NewService.
type Options struct {
	// Extension selects media files when a session is built, e.g. ".ts".
	Extension string
	Titles    *title.Context
	Logger    *slog.Logger
	// Now overrides the clock used for snapshot keys.
	Now func() time.Time
}

// Service applies review operations to stored sessions.
type Service struct {
	store     *session.Store
	extension string
	titles    *title.Context
	logger    *slog.Logger
	now       func() time.Time
	locks     keyedMutex
}

// NewService wires a review service over store.
func NewService(store *session.Store, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("review service requires a session store")
	}
	ext := strings.TrimSpace(opts.Extension)
	if ext == "" {
		ext = ".ts"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     store,
		extension: ext,
		titles:    opts.Titles,
		logger:    logging.NewComponentLogger(opts.Logger, component),
		now:       now,
	}, nil
}

// CreateSession builds one media per file under rootPath and stores them.
func (s *Service) CreateSession(ctx context.Context, rootPath string) (*session.Session, error) {
	rootPath = strings.TrimSpace(rootPath)
	if rootPath == "" {
		return nil, services.Wrap(services.ErrInvalidRequest, component, "create session", "root_path is required", nil)
	}
	info, err := os.Stat(rootPath)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, component, "create session",
			fmt.Sprintf("root_path %q is not a directory", rootPath), err)
	}
	medias, err := session.BuildMedias(rootPath, s.extension, s.titles)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "create session", "build medias", err)
	}
	sess, err := s.store.Create(ctx, rootPath, medias)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "create session", "persist session", err)
	}
	ctx = services.WithSessionID(ctx, sess.ID)
	s.logger.InfoContext(ctx, "session created",
		logging.String("root_path", rootPath),
		logging.Int("media_count", len(sess.Medias)),
		logging.String(logging.FieldEventType, "session_created"),
	)
	return sess, nil
}

// GetSession loads a session. With refresh, every media is rebuilt from the
// files on disk and stored back, discarding unsaved segment edits.
func (s *Service) GetSession(ctx context.Context, id string, refresh bool) (*session.Session, error) {
	sess, err := s.loadSession(ctx, id)
	if err != nil || !refresh {
		return sess, err
	}
	ctx = services.WithSessionID(ctx, id)
	medias, err := session.BuildMedias(sess.RootPath, s.extension, s.titles)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "refresh session", "build medias", err)
	}
	if err := s.store.ReplaceMedias(ctx, id, medias); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, services.Wrap(services.ErrNotFound, component, "refresh session", fmt.Sprintf("session %s", id), err)
		}
		return nil, services.Wrap(services.ErrTransient, component, "refresh session", "persist medias", err)
	}
	sess.Medias = medias
	sess.UpdatedAt = s.now().UTC()
	s.logger.InfoContext(ctx, "session refreshed",
		logging.Int("media_count", len(medias)),
		logging.String(logging.FieldEventType, "session_refreshed"),
	)
	return sess, nil
}

// ListSessions returns stored sessions, most recent first.
func (s *Service) ListSessions(ctx context.Context) ([]session.Summary, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "list sessions", "", err)
	}
	return summaries, nil
}

// DeleteSession removes a session. Sidecar files are left untouched.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	ctx = services.WithSessionID(ctx, id)
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return services.Wrap(services.ErrNotFound, component, "delete session", fmt.Sprintf("session %s", id), err)
		}
		return services.Wrap(services.ErrTransient, component, "delete session", "", err)
	}
	s.logger.InfoContext(ctx, "session deleted", logging.String(logging.FieldEventType, "session_deleted"))
	return nil
}

// GetMedia loads one media of a session.
func (s *Service) GetMedia(ctx context.Context, id, stem string) (*session.Media, error) {
	return s.loadMedia(ctx, id, stem, "get media")
}

func (s *Service) loadSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "get session", "", err)
	}
	if sess == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "get session", fmt.Sprintf("session %s", id), nil)
	}
	return sess, nil
}

func (s *Service) loadMedia(ctx context.Context, id, stem, op string) (*session.Media, error) {
	m, err := s.store.GetMedia(ctx, id, stem)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, op, "", err)
	}
	if m != nil {
		return m, nil
	}
	if _, err := s.loadSession(ctx, id); err != nil {
		return nil, err
	}
	return nil, services.Wrap(services.ErrNotFound, component, op, fmt.Sprintf("media %s in session %s", stem, id), nil)
}

// mutate runs fn on the stored media under the per-media lock, refreshes
// the state from disk and saves the result. fn leaves the media unchanged
// when it fails.
func (s *Service) mutate(ctx context.Context, id, stem, op string, fn func(context.Context, *session.Media) error) (*session.Media, error) {
	unlock := s.locks.lock(id + "/" + stem)
	defer unlock()

	ctx = services.WithMedia(services.WithSessionID(ctx, id), stem)
	m, err := s.loadMedia(ctx, id, stem, op)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, m); err != nil {
		logging.WarnWithContext(ctx, s.logger, op+" rejected", "review_rejected",
			logging.String("operation", op),
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
		)
		return nil, err
	}
	if state, err := media.StateOf(m.Path); err == nil {
		m.State = state
	} else {
		logging.WarnWithContext(ctx, s.logger, "media state refresh failed; keeping stored state", "state_refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the session root path still exists"),
			logging.String(logging.FieldImpact, "reported state may be stale"),
		)
	}
	if err := s.store.SaveMedia(ctx, id, m); err != nil {
		if errors.Is(err, session.ErrMediaNotFound) || errors.Is(err, session.ErrSessionNotFound) {
			return nil, services.Wrap(services.ErrNotFound, component, op, "media vanished during update", err)
		}
		return nil, services.Wrap(services.ErrTransient, component, op, "persist media", err)
	}
	return m, nil
}

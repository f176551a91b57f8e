package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh session identifier: a random UUID without dashes.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create stores a new session over rootPath with the given medias.
func (s *Store) Create(ctx context.Context, rootPath string, medias []*Media) (*Session, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	sess := &Session{
		ID:        NewID(),
		RootPath:  rootPath,
		CreatedAt: now,
		UpdatedAt: now,
		Medias:    medias,
	}
	sortMedias(sess.Medias)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, root_path, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			sess.ID, sess.RootPath, formatTime(now), formatTime(now),
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return insertMedias(ctx, tx, sess.ID, sess.Medias, now)
	})
	if err != nil {
		return nil, err
	}
	for _, m := range sess.Medias {
		m.UpdatedAt = now
	}
	return sess, nil
}

// Get loads a session with its medias. A missing session returns nil
// without error.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, root_path, created_at, updated_at FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM session_medias WHERE session_id = ? ORDER BY stem`, id)
	if err != nil {
		return nil, fmt.Errorf("list medias of %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		sess.Medias = append(sess.Medias, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medias of %s: %w", id, err)
	}
	return sess, nil
}

// List returns session summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
        SELECT s.id, s.root_path, s.created_at, s.updated_at, COUNT(m.stem)
        FROM sessions s
        LEFT JOIN session_medias m ON m.session_id = s.id
        GROUP BY s.id
        ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary    Summary
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&summary.ID, &summary.RootPath, &createdRaw, &updatedRaw, &summary.MediaCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			summary.CreatedAt = created
		}
		if updated, err := parseTimeString(updatedRaw); err == nil {
			summary.UpdatedAt = updated
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Delete removes a session and its medias.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// GetMedia loads one media of a session. A missing session or stem returns
// nil without error.
func (s *Store) GetMedia(ctx context.Context, id, stem string) (*Media, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM session_medias WHERE session_id = ? AND stem = ?`, id, stem)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media %s/%s: %w", id, stem, err)
	}
	return m, nil
}

// SaveMedia replaces the stored row of m and touches the session.
func (s *Store) SaveMedia(ctx context.Context, id string, m *Media) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	args, err := mediaArgs(m, now)
	if err != nil {
		return err
	}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
            UPDATE session_medias
            SET filepath = ?, state = ?, title = ?, skip_backup = ?,
                imported_segments_json = ?, segments = ?, updated_at = ?
            WHERE session_id = ? AND stem = ?`,
			append(args[1:], id, m.Stem)...,
		)
		if err != nil {
			return fmt.Errorf("update media %s: %w", m.Stem, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s in session %s", ErrMediaNotFound, m.Stem, id)
		}
		return touch(ctx, tx, id, now)
	})
	if err != nil {
		return err
	}
	m.UpdatedAt = now
	return nil
}

// ReplaceMedias swaps every media of the session for medias, as done when
// the session is refreshed from disk.
func (s *Store) ReplaceMedias(ctx context.Context, id string, medias []*Media) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	sortMedias(medias)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, id, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_medias WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("clear medias of %s: %w", id, err)
		}
		return insertMedias(ctx, tx, id, medias, now)
	})
	if err != nil {
		return err
	}
	for _, m := range medias {
		m.UpdatedAt = now
	}
	return nil
}

func touch(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("touch session %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func insertMedias(ctx context.Context, tx *sql.Tx, id string, medias []*Media, now time.Time) error {
	for _, m := range medias {
		args, err := mediaArgs(m, now)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_medias (session_id, `+mediaColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			append([]any{id}, args...)...,
		); err != nil {
			return fmt.Errorf("insert media %s: %w", m.Stem, err)
		}
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, user_id, refresh_token_hash, user_agent, ip_address, created_at, last_seen_at, expires_at`

func scanSession(sc scanner) (*domain.Session, error) {
	var (
		sess       domain.Session
		userAgent  sql.NullString
		ipAddress  sql.NullString
		createdAt  string
		lastSeenAt string
		expiresAt  string
	)

	err := sc.Scan(&sess.ID, &sess.UserID, &sess.RefreshTokenHash, &userAgent, &ipAddress,
		&createdAt, &lastSeenAt, &expiresAt)
	if err != nil {
		return nil, err
	}

	sess.UserAgent = userAgent.String
	sess.IPAddress = ipAddress.String

	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.LastSeenAt, err = parseTime(lastSeenAt); err != nil {
		return nil, err
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateSession inserts a new session.
// Returns store.ErrAlreadyExists if the ID or token hash is taken.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		nullString(session.UserAgent),
		nullString(session.IPAddress),
		formatTime(session.CreatedAt),
		formatTime(session.LastSeenAt),
		formatTime(session.ExpiresAt),
	)
	return translateInsertError(err)
}

// GetSessionByRefreshToken looks a session up by its refresh token hash.
// Returns store.ErrNotFound if no session matches.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return sess, err
}

// UpdateSession rewrites the mutable fields of a session.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			refresh_token_hash = ?, user_agent = ?, ip_address = ?,
			last_seen_at = ?, expires_at = ?
		WHERE id = ?`,
		session.RefreshTokenHash,
		nullString(session.UserAgent),
		nullString(session.IPAddress),
		formatTime(session.LastSeenAt),
		formatTime(session.ExpiresAt),
		session.ID,
	)
	if err != nil {
		return translateInsertError(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// DeleteExpiredSessions removes sessions whose expiry is before now and
// returns how many were removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

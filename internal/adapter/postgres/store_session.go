package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/session"
)

// --- Sessions ---

const sessionColumns = `id, user_id, chat_id, state, iteration, goal_preview_id, session_active, context, version, created_at, updated_at`

func scanSession(row rowScanner) (session.Session, error) {
	var s session.Session
	var previewID sql.NullString
	var contextJSON []byte
	err := row.Scan(&s.ID, &s.UserID, &s.ChatID, &s.State, &s.Iteration,
		&previewID, &s.Active, &contextJSON, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if previewID.Valid {
		s.GoalPreviewID = previewID.String
	}
	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &s.Context); err != nil {
			return s, fmt.Errorf("unmarshal session context: %w", err)
		}
	}
	return s, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*session.Session, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *Store) LatestActiveSession(ctx context.Context, userID string) (*session.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND session_active = TRUE
		 ORDER BY updated_at DESC LIMIT 1`, userID)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("latest active session: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("latest active session: %w", err)
	}
	return &sess, nil
}

func (s *Store) CreateSession(ctx context.Context, sess *session.Session) (*session.Session, error) {
	contextJSON, err := json.Marshal(sess.Context)
	if err != nil {
		return nil, fmt.Errorf("marshal session context: %w", err)
	}
	var previewID any
	if sess.GoalPreviewID != "" {
		previewID = sess.GoalPreviewID
	}

	// The session id is generated by the caller so the paired chat can
	// reference it before this insert.
	row := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, chat_id, state, iteration, goal_preview_id, session_active, context)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+sessionColumns,
		sess.ID, sess.UserID, sess.ChatID, sess.State, sess.Iteration, previewID, sess.Active, contextJSON)

	created, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &created, nil
}

// UpdateSession writes sess if the stored version still matches sess.Version,
// then increments it. A mismatch means a concurrent turn updated the session
// first.
func (s *Store) UpdateSession(ctx context.Context, sess *session.Session) error {
	contextJSON, err := json.Marshal(sess.Context)
	if err != nil {
		return fmt.Errorf("marshal session context: %w", err)
	}
	var previewID any
	if sess.GoalPreviewID != "" {
		previewID = sess.GoalPreviewID
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET state = $2, iteration = $3, goal_preview_id = $4,
		        session_active = $5, context = $6, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $7`,
		sess.ID, sess.State, sess.Iteration, previewID, sess.Active, contextJSON, sess.Version)
	if err != nil {
		return fmt.Errorf("update session %s: %w", sess.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update session %s: %w", sess.ID, domain.ErrConflict)
	}
	sess.Version++
	return nil
}

// --- Chats and transcript messages ---

func (s *Store) CreateChat(ctx context.Context, c *session.Chat) (*session.Chat, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO chats (user_id, session_id) VALUES ($1, $2)
		 RETURNING id, user_id, session_id, created_at`,
		c.UserID, c.SessionID)

	var created session.Chat
	if err := row.Scan(&created.ID, &created.UserID, &created.SessionID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &created, nil
}

// AppendMessage inserts one transcript record. There is deliberately no
// update or delete counterpart: the transcript is append-only.
func (s *Store) AppendMessage(ctx context.Context, m *session.Message) (*session.Message, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (chat_id, session_id, sender, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, chat_id, session_id, sender, message, created_at`,
		m.ChatID, m.SessionID, m.Sender, m.Message)

	var created session.Message
	if err := row.Scan(&created.ID, &created.ChatID, &created.SessionID,
		&created.Sender, &created.Message, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return &created, nil
}

func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]session.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, chat_id, session_id, sender, message, created_at
		 FROM chat_messages WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []session.Message
	for rows.Next() {
		var m session.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SessionID, &m.Sender, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// --- Goal previews ---

const previewColumns = `id, user_id, session_id, data, created_at, updated_at`

func scanPreview(row rowScanner) (session.Preview, error) {
	var p session.Preview
	err := row.Scan(&p.ID, &p.UserID, &p.SessionID, &p.Data, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) GetPreview(ctx context.Context, id string) (*session.Preview, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+previewColumns+` FROM goal_previews WHERE id = $1`, id)

	p, err := scanPreview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get preview %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get preview %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) ListPreviews(ctx context.Context, userID string) ([]session.Preview, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+previewColumns+` FROM goal_previews WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list previews: %w", err)
	}
	defer rows.Close()

	var previews []session.Preview
	for rows.Next() {
		p, err := scanPreview(rows)
		if err != nil {
			return nil, err
		}
		previews = append(previews, p)
	}
	return previews, rows.Err()
}

func (s *Store) CreatePreview(ctx context.Context, p *session.Preview) (*session.Preview, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO goal_previews (user_id, session_id, data) VALUES ($1, $2, $3)
		 RETURNING `+previewColumns,
		p.UserID, p.SessionID, p.Data)

	created, err := scanPreview(row)
	if err != nil {
		return nil, fmt.Errorf("create preview: %w", err)
	}
	return &created, nil
}

func (s *Store) UpdatePreview(ctx context.Context, p *session.Preview) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE goal_previews SET data = $2, updated_at = now() WHERE id = $1`,
		p.ID, p.Data)
	if err != nil {
		return fmt.Errorf("update preview %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update preview %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

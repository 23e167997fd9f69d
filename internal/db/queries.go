package db

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Session struct {
	ID        string
	Room      string
	AgentID   string
	StartedAt time.Time
	EndedAt   sql.NullTime
}

type Turn struct {
	ID        int64
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

const insertSession = `
INSERT INTO sessions (id, room, agent_id, started_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`

type InsertSessionParams struct {
	ID        string
	Room      string
	AgentID   string
	StartedAt time.Time
}

func (q *Queries) InsertSession(ctx context.Context, arg InsertSessionParams) error {
	_, err := q.db.ExecContext(ctx, insertSession, arg.ID, arg.Room, arg.AgentID, arg.StartedAt)
	return err
}

const endSession = `UPDATE sessions SET ended_at = ? WHERE id = ?`

func (q *Queries) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, endSession, endedAt, id)
	return err
}

const getSession = `SELECT id, room, agent_id, started_at, ended_at FROM sessions WHERE id = ?`

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	var s Session
	err := q.db.QueryRowContext(ctx, getSession, id).Scan(&s.ID, &s.Room, &s.AgentID, &s.StartedAt, &s.EndedAt)
	return s, err
}

const insertTurn = `
INSERT INTO turns (session_id, role, content, created_at) VALUES (?, ?, ?, ?)
`

type InsertTurnParams struct {
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

func (q *Queries) InsertTurn(ctx context.Context, arg InsertTurnParams) error {
	_, err := q.db.ExecContext(ctx, insertTurn, arg.SessionID, arg.Role, arg.Content, arg.CreatedAt)
	return err
}

const getTurnsBySession = `
SELECT id, session_id, role, content, created_at FROM turns
WHERE session_id = ?
ORDER BY id
`

func (q *Queries) GetTurnsBySession(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := q.db.QueryContext(ctx, getTurnsBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

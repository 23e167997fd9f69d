// Package history persists call transcripts so finished sessions can be
// reviewed after the room closes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leadvoice/internal/agent"
	"leadvoice/internal/db"
)

type Store struct {
	conn *sql.DB
	q    *db.Queries
}

func NewStore(database *db.DB) *Store {
	return &Store{conn: database.Conn(), q: db.New(database.Conn())}
}

// Transcript is one finished call.
type Transcript struct {
	SessionID string
	Room      string
	AgentID   string
	StartedAt time.Time
	EndedAt   time.Time
	Turns     []agent.Turn
}

// Save writes the session row and all its turns in one transaction.
func (s *Store) Save(ctx context.Context, t Transcript) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := db.New(tx)

	if err := q.InsertSession(ctx, db.InsertSessionParams{
		ID:        t.SessionID,
		Room:      t.Room,
		AgentID:   t.AgentID,
		StartedAt: t.StartedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, turn := range t.Turns {
		if err := q.InsertTurn(ctx, db.InsertTurnParams{
			SessionID: t.SessionID,
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.At.UTC(),
		}); err != nil {
			return fmt.Errorf("insert turn: %w", err)
		}
	}

	if err := q.EndSession(ctx, t.SessionID, t.EndedAt.UTC()); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	return tx.Commit()
}

// Load returns a stored transcript by session id.
func (s *Store) Load(ctx context.Context, sessionID string) (Transcript, error) {
	sess, err := s.q.GetSession(ctx, sessionID)
	if err != nil {
		return Transcript{}, err
	}

	turns, err := s.q.GetTurnsBySession(ctx, sessionID)
	if err != nil {
		return Transcript{}, err
	}

	t := Transcript{
		SessionID: sess.ID,
		Room:      sess.Room,
		AgentID:   sess.AgentID,
		StartedAt: sess.StartedAt,
	}
	if sess.EndedAt.Valid {
		t.EndedAt = sess.EndedAt.Time
	}
	for _, turn := range turns {
		t.Turns = append(t.Turns, agent.Turn{Role: turn.Role, Content: turn.Content, At: turn.CreatedAt})
	}
	return t, nil
}

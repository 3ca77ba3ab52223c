// Package journal is the fire-and-forget transcript sink. Every write
// is best-effort: failures are logged and swallowed, never surfaced to
// the request path.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const writeTimeout = 5 * time.Second

// Entry is one recorded exchange.
type Entry struct {
	SessionID  string
	Utterance  string
	Reply      string
	Provider   string
	DurationMs int64
}

// Store writes transcripts to Postgres. A nil *Store (or a Store with a
// nil pool) is a no-op, so the handler never has to branch on whether
// journaling is enabled.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Record persists one exchange asynchronously. The caller's context is
// deliberately not used: the response must not wait on, or be cancelled
// with, the journal write.
func (s *Store) Record(e Entry) {
	if s == nil || s.pool == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		_, err := s.pool.Exec(ctx,
			`INSERT INTO transcripts (id, session_id, utterance, reply, provider, duration_ms, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, now())`,
			uuid.NewString(), e.SessionID, e.Utterance, e.Reply, e.Provider, e.DurationMs,
		)
		if err != nil {
			s.logger.Warn("transcript write failed", "error", err, "session_id", e.SessionID)
		}
	}()
}

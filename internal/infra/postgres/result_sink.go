package postgres

import (
	"context"
	"fmt"

	"solo-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultSink inserts one row per finished session. Fire-and-forget from the
// engine's point of view: callers treat failures as warnings.
type ResultSink struct {
	pool *pgxpool.Pool
}

func NewResultSink(pool *pgxpool.Pool) *ResultSink {
	return &ResultSink{pool: pool}
}

func (s *ResultSink) Record(ctx context.Context, result domain.SessionResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_results (bank_id, participant_name, score, total_possible, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.BankID, result.ParticipantName, result.Score, result.TotalPossible, result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session result: %w", err)
	}
	return nil
}

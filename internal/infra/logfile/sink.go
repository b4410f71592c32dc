package logfile

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"solo-quiz-service/internal/domain"
)

// Sink appends one line per finished session to a durable log file. The
// append-only realization of the result sink contract.
type Sink struct {
	path string
	mu   sync.Mutex
}

func NewSink(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Record(_ context.Context, result domain.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open result log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\t%d/%d\n",
		result.CompletedAt.UTC().Format(time.RFC3339),
		result.BankID,
		result.ParticipantName,
		result.Score,
		result.TotalPossible,
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync result log: %w", err)
	}
	return nil
}

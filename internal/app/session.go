package app

import (
	"context"
	"sync"
	"time"

	"solo-quiz-service/internal/domain"
)

// ResultSink durably records a finished session. The engine calls it at most
// once, on the Active -> Completed transition, and treats any failure as a
// non-fatal warning: the completion is never rolled back and the sink is
// never retried.
type ResultSink interface {
	Record(ctx context.Context, result domain.SessionResult) error
}

// Session walks one participant through a bank in order, grading each
// submission and accumulating score. Two logical states: Active while
// position < len(questions), Completed once position reaches the end.
// Completed is terminal.
type Session struct {
	id          string
	bank        domain.Bank
	sink        ResultSink
	sinkTimeout time.Duration
	now         func() time.Time

	mu          sync.RWMutex
	position    int
	participant *domain.Participant
}

func newSession(id string, bank domain.Bank, participantName string, sink ResultSink, sinkTimeout time.Duration) *Session {
	return newSessionWithClock(id, bank, participantName, sink, sinkTimeout, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, bank domain.Bank, participantName string, sink ResultSink, sinkTimeout time.Duration, now func() time.Time) *Session {
	return &Session{
		id:          id,
		bank:        bank,
		sink:        sink,
		sinkTimeout: sinkTimeout,
		now:         now,
		participant: &domain.Participant{
			Name:        participantName,
			LastUpdated: now(),
		},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CurrentQuestion returns the question at the current position, or false once
// the session is Completed. Safe to call any number of times; no side effects.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.position >= len(s.bank.Questions) {
		return domain.Question{}, false
	}
	return s.bank.Questions[s.position], true
}

// SubmitAnswer validates, grades, and advances exactly one step.
//
// Validation failures (and submissions after completion) leave position and
// score untouched so the caller can re-prompt. A graded submission always
// advances, correct or not. Reaching the end fires the result sink once; a
// sink failure is surfaced on the outcome as a warning, never as an error.
func (s *Session) SubmitAnswer(ctx context.Context, raw string) (domain.SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.position >= len(s.bank.Questions) {
		return domain.SubmitOutcome{}, domain.ErrSessionComplete
	}

	trimmed, err := domain.ValidateAnswer(raw)
	if err != nil {
		return domain.SubmitOutcome{}, err
	}

	question := s.bank.Questions[s.position]
	correct := question.Rule.Grade(trimmed)

	awarded := 0
	if correct {
		awarded = question.EffectivePoints()
		s.participant.Score += awarded
	}
	s.participant.LastUpdated = s.now()
	s.position++

	outcome := domain.SubmitOutcome{
		Correct:   correct,
		Awarded:   awarded,
		Score:     s.participant.Score,
		Completed: s.position == len(s.bank.Questions),
	}
	if outcome.Completed {
		outcome.SinkWarning = s.recordLocked(ctx)
	}
	return outcome, nil
}

// recordLocked invokes the sink under a bounded context so persistence
// latency cannot block the submitter indefinitely.
func (s *Session) recordLocked(ctx context.Context) error {
	if s.sink == nil {
		return nil
	}
	sinkCtx := ctx
	if s.sinkTimeout > 0 {
		var cancel context.CancelFunc
		sinkCtx, cancel = context.WithTimeout(ctx, s.sinkTimeout)
		defer cancel()
	}
	return s.sink.Record(sinkCtx, domain.SessionResult{
		BankID:          s.bank.ID,
		ParticipantName: s.participant.Name,
		Score:           s.participant.Score,
		TotalPossible:   s.bank.TotalPoints(),
		CompletedAt:     s.now(),
	})
}

// TotalPoints is the sum of effective point values across the bank.
func (s *Session) TotalPoints() int {
	return s.bank.TotalPoints()
}

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position >= len(s.bank.Questions)
}

// Snapshot returns a consistent read-only view for display. Readers on other
// goroutines must use this rather than poking at engine internals.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SessionSnapshot{
		BankID:    s.bank.ID,
		Position:  s.position,
		Total:     len(s.bank.Questions),
		Score:     s.participant.Score,
		Completed: s.position >= len(s.bank.Questions),
	}
}

package app

import (
	"context"
	"time"

	"solo-quiz-service/internal/domain"
)

// SessionRegistry abstracts how live sessions are tracked (in-memory, Redis-marked, etc).
type SessionRegistry interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// SessionService contains the quiz use cases: starting a session against a
// bank and routing submissions to the right engine.
type SessionService struct {
	registry    SessionRegistry
	banks       BankRepository
	sink        ResultSink
	sinkTimeout time.Duration
	newID       func() string
}

// ServiceOption tweaks service construction.
type ServiceOption func(*SessionService)

// WithSinkTimeout bounds how long a completion waits on the result sink.
func WithSinkTimeout(d time.Duration) ServiceOption {
	return func(s *SessionService) { s.sinkTimeout = d }
}

// WithIDGenerator is test-only for deterministic session IDs.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *SessionService) { s.newID = gen }
}

func NewSessionService(registry SessionRegistry, banks BankRepository, sink ResultSink, opts ...ServiceOption) *SessionService {
	s := &SessionService{
		registry:    registry,
		banks:       banks,
		sink:        sink,
		sinkTimeout: 5 * time.Second,
		newID:       defaultSessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStandaloneSession builds an engine directly from a bank, without the
// registry. Used by the terminal presentation, which owns its one session.
func NewStandaloneSession(bank domain.Bank, participantName string, sink ResultSink, sinkTimeout time.Duration) (*Session, error) {
	if len(bank.Questions) == 0 {
		return nil, domain.ErrEmptyBank
	}
	return newSession(defaultSessionID(), bank, participantName, sink, sinkTimeout), nil
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(bank domain.Bank, participantName string, sink ResultSink, sinkTimeout time.Duration, now func() time.Time) *Session {
	return newSessionWithClock(defaultSessionID(), bank, participantName, sink, sinkTimeout, now)
}

// Start loads the bank and registers a fresh session for the participant.
func (s *SessionService) Start(ctx context.Context, bankID, participantName string) (*Session, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if len(bank.Questions) == 0 {
		return nil, domain.ErrEmptyBank
	}

	session := newSession(s.newID(), bank, participantName, s.sink, s.sinkTimeout)
	s.registry.Put(session)
	return session, nil
}

// Current returns the question a session is waiting on, or false if Completed.
func (s *SessionService) Current(_ context.Context, sessionID string) (domain.Question, bool, error) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return domain.Question{}, false, domain.ErrSessionNotFound
	}
	q, active := session.CurrentQuestion()
	return q, active, nil
}

// Submit routes a raw answer to the session engine.
func (s *SessionService) Submit(ctx context.Context, sessionID, raw string) (domain.SubmitOutcome, error) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return domain.SubmitOutcome{}, domain.ErrSessionNotFound
	}
	return session.SubmitAnswer(ctx, raw)
}

// Snapshot exposes a display view of the session.
func (s *SessionService) Snapshot(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.registry.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// End drops a session from the registry. Safe on unknown IDs.
func (s *SessionService) End(_ context.Context, sessionID string) {
	s.registry.Delete(sessionID)
}

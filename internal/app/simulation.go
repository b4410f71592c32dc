package app

import (
	"context"
	"fmt"
	"time"

	"solo-quiz-service/internal/domain"
)

// Simulation walks a bank's question sequence on its own goroutine with a
// fixed per-question delay, purely to illustrate a second, independent reader
// of the immutable bank. It reads the participant's display name only and
// never touches session position or score, so it needs no coordination with
// the engine.
type Simulation struct {
	bank            domain.Bank
	participantName string
	delay           time.Duration
	logf            func(format string, args ...any)
}

func NewSimulation(bank domain.Bank, participantName string, delay time.Duration, logf func(format string, args ...any)) *Simulation {
	// A non-positive delay would panic time.NewTicker, and the value comes
	// straight from config.
	if delay <= 0 {
		delay = time.Second
	}
	return &Simulation{
		bank:            bank,
		participantName: participantName,
		delay:           delay,
		logf:            logf,
	}
}

// Start launches the walk and returns a channel closed when it finishes.
// Cancel the context to stop early.
func (s *Simulation) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx)
	}()
	return done
}

func (s *Simulation) run(ctx context.Context) {
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := range s.bank.Questions {
		select {
		case <-ctx.Done():
			s.logf("simulation for %s canceled at question %d/%d", s.participantName, i, len(s.bank.Questions))
			return
		case <-ticker.C:
			s.logf("simulation: previewing question %d/%d: %s", i+1, len(s.bank.Questions), s.bank.Questions[i].Prompt)
		}
	}
	s.logf("%s", s.Summary())
}

// Summary renders the human-readable completion line.
func (s *Simulation) Summary() string {
	return fmt.Sprintf("simulation finished: walked %d questions of bank %q alongside %s",
		len(s.bank.Questions), s.bank.ID, s.participantName)
}

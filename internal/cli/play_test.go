package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/config"
	"solo-quiz-service/internal/domain"
)

func TestPlayLoopRunsSessionToCompletion(t *testing.T) {
	sink := &captureSink{}
	session, err := app.NewStandaloneSession(sampleBanks()["bank-1"], "Alice", sink, time.Second)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	// A blank line re-prompts the same question before the real answer.
	in := strings.NewReader("\n4\nlondon\n")
	var out bytes.Buffer

	if err := playLoop(context.Background(), session, in, &out); err != nil {
		t.Fatalf("play loop: %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "Please type an answer.") {
		t.Fatalf("expected re-prompt for blank answer, got:\n%s", rendered)
	}
	if strings.Count(rendered, "What is 2 + 2?") != 2 {
		t.Fatalf("expected first question re-offered after blank answer, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Quiz complete: 5/10 points") {
		t.Fatalf("expected final score line, got:\n%s", rendered)
	}
	if len(sink.results) != 1 || sink.results[0].Score != 5 {
		t.Fatalf("expected one persisted result with score 5, got %+v", sink.results)
	}
}

func TestPlayLoopHandlesInputEnd(t *testing.T) {
	session, err := app.NewStandaloneSession(sampleBanks()["bank-1"], "Alice", &captureSink{}, time.Second)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	var out bytes.Buffer
	if err := playLoop(context.Background(), session, strings.NewReader("4\n"), &out); err != nil {
		t.Fatalf("play loop: %v", err)
	}
	if !strings.Contains(out.String(), "input ended before the quiz finished") {
		t.Fatalf("expected early-exit notice, got:\n%s", out.String())
	}
	if session.Completed() {
		t.Fatalf("session must stay Active when input runs out")
	}
}

func TestResolveBankID(t *testing.T) {
	var cfg config.Config
	if got := resolveBankID("", cfg); got != "bank-1" {
		t.Fatalf("expected sample bank fallback, got %q", got)
	}

	cfg.Bank.ID = "bank-from-config"
	if got := resolveBankID("", cfg); got != "bank-from-config" {
		t.Fatalf("expected configured bank, got %q", got)
	}
	if got := resolveBankID("bank-flag", cfg); got != "bank-flag" {
		t.Fatalf("expected flag to win, got %q", got)
	}
}

type captureSink struct {
	results []domain.SessionResult
}

func (s *captureSink) Record(_ context.Context, result domain.SessionResult) error {
	s.results = append(s.results, result)
	return nil
}

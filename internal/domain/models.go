package domain

import "time"

// RuleKind tags a grading rule variant.
type RuleKind string

const (
	// RuleExactMatch compares the trimmed submission against a reference
	// answer, case-insensitively. The only kind implemented today.
	RuleExactMatch RuleKind = "exact_match"
)

// GradingRule decides whether a submitted answer is correct. It is a tagged
// variant rather than an interface so new kinds (numeric range, answer sets)
// can be added without touching the session engine.
type GradingRule struct {
	Kind      RuleKind `json:"kind" yaml:"kind"`
	Reference string   `json:"reference" yaml:"reference"`
}

// Question is one gradable item in a bank. Immutable after bank construction.
type Question struct {
	Prompt string      `json:"prompt" yaml:"prompt"`
	Points int         `json:"points" yaml:"points"` // defaults to 1 if zero
	Rule   GradingRule `json:"rule" yaml:"rule"`
}

// EffectivePoints treats a non-positive point value as 1, matching how banks
// are commonly authored without explicit weights.
func (q Question) EffectivePoints() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Bank is a fixed ordered sequence of questions. Presentation order is bank
// order; the engine never reorders or skips.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// TotalPoints sums the effective point values of every question.
func (b Bank) TotalPoints() int {
	total := 0
	for _, q := range b.Questions {
		total += q.EffectivePoints()
	}
	return total
}

// Participant is the single player of a session and their running score.
// The score field is written only by the session engine.
type Participant struct {
	Name        string
	Score       int
	LastUpdated time.Time
}

// SubmitOutcome summarizes one graded submission.
type SubmitOutcome struct {
	Correct   bool `json:"correct"`
	Awarded   int  `json:"awarded"`
	Score     int  `json:"score"`
	Completed bool `json:"completed"`
	// SinkWarning carries a non-fatal persistence failure from the
	// completion transition. The session is Completed either way.
	SinkWarning error `json:"-"`
}

// SessionResult is the final tuple handed to a result sink, exactly once,
// on the Active -> Completed transition.
type SessionResult struct {
	BankID          string    `json:"bankId"`
	ParticipantName string    `json:"participantName"`
	Score           int       `json:"score"`
	TotalPossible   int       `json:"totalPossible"`
	CompletedAt     time.Time `json:"completedAt"`
}

// SessionSnapshot is a read-only view of engine state for display.
type SessionSnapshot struct {
	BankID    string `json:"bankId"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
	Score     int    `json:"score"`
	Completed bool   `json:"completed"`
}

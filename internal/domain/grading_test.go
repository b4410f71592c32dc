package domain

import "testing"

func TestValidateAnswerTrims(t *testing.T) {
	got, err := ValidateAnswer("  Paris  ")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != "Paris" {
		t.Fatalf("expected trimmed answer, got %q", got)
	}
}

func TestValidateAnswerRejectsBlank(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		if _, err := ValidateAnswer(raw); err != ErrEmptyAnswer {
			t.Fatalf("expected ErrEmptyAnswer for %q, got %v", raw, err)
		}
	}
}

func TestExactMatchIsCaseInsensitive(t *testing.T) {
	rule := GradingRule{Kind: RuleExactMatch, Reference: "Paris"}

	for _, answer := range []string{"Paris", "paris", "PARIS"} {
		if !rule.Grade(answer) {
			t.Fatalf("expected %q to grade correct", answer)
		}
	}
	if rule.Grade("London") {
		t.Fatalf("expected wrong answer to grade incorrect")
	}
}

func TestGradeUnknownKindIsIncorrect(t *testing.T) {
	rule := GradingRule{Kind: "numeric_range", Reference: "4"}
	if rule.Grade("4") {
		t.Fatalf("unknown rule kind must not grade correct")
	}
}

func TestEffectivePointsDefaultsToOne(t *testing.T) {
	if got := (Question{}).EffectivePoints(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := (Question{Points: 5}).EffectivePoints(); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestBankTotalPoints(t *testing.T) {
	bank := Bank{Questions: []Question{{Points: 5}, {Points: 5}, {}}}
	if got := bank.TotalPoints(); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}

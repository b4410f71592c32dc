package domain

import "strings"

// ValidateAnswer trims leading and trailing whitespace from a raw submission
// and rejects blank input. Pure; safe to call before any grading.
func ValidateAnswer(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyAnswer
	}
	return trimmed, nil
}

// Grade applies the rule to an already-trimmed answer. Deterministic, no
// side effects. Unknown kinds grade as incorrect rather than panicking.
func (r GradingRule) Grade(trimmed string) bool {
	switch r.Kind {
	case RuleExactMatch:
		return strings.EqualFold(trimmed, strings.TrimSpace(r.Reference))
	default:
		return false
	}
}

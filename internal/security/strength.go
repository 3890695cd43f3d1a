package security

import "strings"

// strengthSymbols is the punctuation set counted by the symbol check.
const strengthSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// AcceptanceScore is the minimum strength score a password must reach to be accepted.
const AcceptanceScore = 3

// StrengthLevel classifies a password by its strength score.
type StrengthLevel string

const (
	StrengthVeryWeak StrengthLevel = "very_weak"
	StrengthWeak     StrengthLevel = "weak"
	StrengthMedium   StrengthLevel = "medium"
	StrengthStrong   StrengthLevel = "strong"
)

// StrengthChecks holds the per-criterion outcome of the strength policy, so callers
// can render granular feedback.
type StrengthChecks struct {
	MinLength bool `json:"min_length"`
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Digit     bool `json:"digit"`
	Symbol    bool `json:"symbol"`
}

// StrengthResult is the full outcome of evaluating a password against the policy.
type StrengthResult struct {
	Checks StrengthChecks `json:"checks"`
	Score  int            `json:"score"`
	Level  StrengthLevel  `json:"level"`
}

// Acceptable reports whether the password meets the acceptance threshold.
func (r StrengthResult) Acceptable() bool {
	return r.Score >= AcceptanceScore
}

// Failed returns the names of the unmet checks, for error messages and API feedback.
func (r StrengthResult) Failed() []string {
	var out []string
	if !r.Checks.MinLength {
		out = append(out, "min_length")
	}
	if !r.Checks.Lowercase {
		out = append(out, "lowercase")
	}
	if !r.Checks.Uppercase {
		out = append(out, "uppercase")
	}
	if !r.Checks.Digit {
		out = append(out, "digit")
	}
	if !r.Checks.Symbol {
		out = append(out, "symbol")
	}
	return out
}

// EvaluateStrength scores password against five checks: length >= 8, a lowercase
// letter, an uppercase letter, a digit, and a symbol from the policy's punctuation
// set. Score is the number of satisfied checks; levels are very_weak (<2), weak (2),
// medium (3), strong (>=4). Pure function, no I/O.
func EvaluateStrength(password string) StrengthResult {
	checks := StrengthChecks{
		MinLength: len(password) >= 8,
	}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			checks.Lowercase = true
		case r >= 'A' && r <= 'Z':
			checks.Uppercase = true
		case r >= '0' && r <= '9':
			checks.Digit = true
		case strings.ContainsRune(strengthSymbols, r):
			checks.Symbol = true
		}
	}

	score := 0
	for _, ok := range []bool{checks.MinLength, checks.Lowercase, checks.Uppercase, checks.Digit, checks.Symbol} {
		if ok {
			score++
		}
	}

	level := StrengthVeryWeak
	switch {
	case score >= 4:
		level = StrengthStrong
	case score == 3:
		level = StrengthMedium
	case score == 2:
		level = StrengthWeak
	}

	return StrengthResult{Checks: checks, Score: score, Level: level}
}

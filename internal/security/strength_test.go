package security

import "testing"

func TestEvaluateStrength(t *testing.T) {
	testCases := []struct {
		name       string
		password   string
		score      int
		level      StrengthLevel
		acceptable bool
	}{
		{"empty", "", 0, StrengthVeryWeak, false},
		{"short lowercase", "abc", 1, StrengthVeryWeak, false},
		{"short lowercase word", "weakpw", 1, StrengthVeryWeak, false},
		{"long lowercase", "abcdefgh", 2, StrengthWeak, false},
		{"long lowercase digit", "abcdefg1", 3, StrengthMedium, true},
		{"long mixed case digit", "Abcdefg1", 4, StrengthStrong, true},
		{"all five", "Str0ng!Pass", 5, StrengthStrong, true},
		{"short but varied", "aB1!", 4, StrengthStrong, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateStrength(tc.password)
			if got.Score != tc.score {
				t.Errorf("Score = %d, want %d (checks %+v)", got.Score, tc.score, got.Checks)
			}
			if got.Level != tc.level {
				t.Errorf("Level = %q, want %q", got.Level, tc.level)
			}
			if got.Acceptable() != tc.acceptable {
				t.Errorf("Acceptable = %v, want %v", got.Acceptable(), tc.acceptable)
			}
		})
	}
}

func TestEvaluateStrength_Checks(t *testing.T) {
	got := EvaluateStrength("Passw0rd!")
	want := StrengthChecks{MinLength: true, Lowercase: true, Uppercase: true, Digit: true, Symbol: true}
	if got.Checks != want {
		t.Errorf("Checks = %+v, want %+v", got.Checks, want)
	}
}

func TestEvaluateStrength_SymbolSet(t *testing.T) {
	// Characters outside the policy's punctuation set do not count as symbols.
	if EvaluateStrength("aaaa aaaa").Checks.Symbol {
		t.Error("space should not count as a symbol")
	}
	if !EvaluateStrength("aaaa!aaaa").Checks.Symbol {
		t.Error("! should count as a symbol")
	}
}

func TestStrengthResult_Failed(t *testing.T) {
	got := EvaluateStrength("abcdefgh") // length + lowercase only
	failed := got.Failed()
	if len(failed) != 3 {
		t.Fatalf("Failed() = %v, want 3 entries", failed)
	}
	wantSet := map[string]bool{"uppercase": true, "digit": true, "symbol": true}
	for _, f := range failed {
		if !wantSet[f] {
			t.Errorf("unexpected failed check %q", f)
		}
	}
}

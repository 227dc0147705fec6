package types

import "testing"

func TestParseGrade_Values(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"A+", 1},
		{"A", 2},
		{"B", 3},
		{"B+", 4},
		{"C", 5},
		{"D", 6},
		{"F", 7},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			g, ok := ParseGrade(tc.in)
			if !ok {
				t.Fatalf("ParseGrade(%q) not recognized", tc.in)
			}
			if got := g.Value(); got != tc.want {
				t.Errorf("Value(): got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseGrade_Unrecognized(t *testing.T) {
	for _, in := range []string{"", "Z", "a+", " A", "A-", "E"} {
		if _, ok := ParseGrade(in); ok {
			t.Errorf("ParseGrade(%q): expected unrecognized", in)
		}
	}
	if got := Grade("Z").Value(); got != 0 {
		t.Errorf("Value() of unknown grade: got %d, want 0", got)
	}
}

func TestOutcome_String(t *testing.T) {
	if OutcomeUp.String() != "up" || OutcomeDown.String() != "down" || OutcomeDropped.String() != "dropped" {
		t.Errorf("unexpected outcome names: %s %s %s", OutcomeUp, OutcomeDown, OutcomeDropped)
	}
}

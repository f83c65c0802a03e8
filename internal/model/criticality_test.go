package model

import "testing"

// TestCriticalityRank tests that ranks form the documented total preorder.
func TestCriticalityRank(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		criticality Criticality
		expected    int
	}{
		{CriticalityMaximum, 0},
		{CriticalityCritical, 1},
		{CriticalityHigh, 2},
		{CriticalityMedium, 3},
		{CriticalityLow, 4},
		{Criticality("CRITICO_MAXIMO"), 0},
		{Criticality("medio"), 3},
		{Criticality("DESCONHECIDO"), UnrankedRank},
		{Criticality(""), UnrankedRank},
	}

	for _, tc := range testCases {
		t.Run(string(tc.criticality), func(t *testing.T) {
			t.Parallel()
			if got := tc.criticality.Rank(); got != tc.expected {
				t.Errorf("got %d, expected %d", got, tc.expected)
			}
		})
	}
}

// TestCriticalityOrdering tests that every known label outranks the next one.
func TestCriticalityOrdering(t *testing.T) {
	t.Parallel()

	for i := 0; i < len(Criticalities)-1; i++ {
		if Criticalities[i].Rank() >= Criticalities[i+1].Rank() {
			t.Errorf("%s should rank before %s", Criticalities[i], Criticalities[i+1])
		}
	}
	if CriticalityLow.Rank() >= Criticality("OUTRO").Rank() {
		t.Error("unknown labels should rank after BAIXO")
	}
}

// TestCanonicalRankMatchesOrder tests that the direct lookup agrees with
// the order of Criticalities and with the folding path.
func TestCanonicalRankMatchesOrder(t *testing.T) {
	t.Parallel()

	if len(canonicalRank) != len(Criticalities) {
		t.Fatalf("got %d ranked labels, expected %d", len(canonicalRank), len(Criticalities))
	}
	for i, c := range Criticalities {
		if got := canonicalRank[c]; got != i {
			t.Errorf("%s: got %d, expected %d", c, got, i)
		}
		if got := Criticality(" " + string(c) + " - nota").Rank(); got != i {
			t.Errorf("folded %s: got %d, expected %d", c, got, i)
		}
	}
}

func BenchmarkCriticalityRank(b *testing.B) {
	for b.Loop() {
		_ = CriticalityMedium.Rank()
	}
}

// TestParseCriticality tests label folding.
func TestParseCriticality(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Criticality
		ok       bool
	}{
		{"CRÍTICO MÁXIMO", CriticalityMaximum, true},
		{"CRITICO_MAXIMO", CriticalityMaximum, true},
		{"crítico", CriticalityCritical, true},
		{"  Alto ", CriticalityHigh, true},
		{"MEDIO", CriticalityMedium, true},
		{"baixo", CriticalityLow, true},
		{"CRÍTICO - Bloqueado pelo browser", CriticalityCritical, true},
		{"MÉDIO - Cadeado quebrado", CriticalityMedium, true},
		{"DESCONHECIDO", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseCriticality(tc.input)
			if ok != tc.ok {
				t.Fatalf("got ok=%v, expected %v", ok, tc.ok)
			}
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestCriticalityKnown tests the Known helper.
func TestCriticalityKnown(t *testing.T) {
	t.Parallel()

	if !CriticalityHigh.Known() {
		t.Error("expected ALTO to be known")
	}
	if Criticality("URGENTE").Known() {
		t.Error("expected URGENTE to be unknown")
	}
}

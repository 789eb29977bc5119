package personality

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		raw, count, want int
	}{
		{0, 11, 0},
		{110, 11, 100},
		{-110, 11, 100},
		{55, 11, 50},
		{5, 11, 4},
		{-35, 10, 35},
		{500, 10, 100},
		{10, 0, 0},
		{10, -1, 0},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, Percentage(tc.raw, tc.count), "Percentage(%d, %d)", tc.raw, tc.count)
	}
}

func TestBreakdownNeutral(t *testing.T) {
	want := []DimensionResult{
		{Dimension: DimensionEI, Name: "Extraversion (E)"},
		{Dimension: DimensionSN, Name: "Sensing (S)"},
		{Dimension: DimensionTF, Name: "Thinking (T)"},
		{Dimension: DimensionJP, Name: "Judging (J)"},
		{Dimension: DimensionAT, Name: "Assertive (A)"},
	}
	if diff := cmp.Diff(want, Breakdown(Scores{})); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestBreakdownUsesBankCounts(t *testing.T) {
	got := Breakdown(Scores{EI: -55, SN: 110, TF: 0, JP: -5, AT: -50})
	want := []DimensionResult{
		{Dimension: DimensionEI, Name: "Introversion (I)", Percentage: 50, Score: -55},
		{Dimension: DimensionSN, Name: "Sensing (S)", Percentage: 100, Score: 110},
		{Dimension: DimensionTF, Name: "Thinking (T)", Percentage: 0, Score: 0},
		{Dimension: DimensionJP, Name: "Perceiving (P)", Percentage: 4, Score: -5},
		{Dimension: DimensionAT, Name: "Turbulent (T)", Percentage: 50, Score: -50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestBreakdownIsDeterministic(t *testing.T) {
	s := Scores{EI: 15, SN: -20, TF: 35, JP: -45, AT: 10}
	require.Equal(t, Breakdown(s), Breakdown(s))
}

package personality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func neutralResponses() []int {
	out := make([]int, QuestionCount())
	for i := range out {
		out[i] = 3
	}
	return out
}

// pushResponses answers every question of d at the extreme that favours the
// first pole (toFirst) or the second one, leaving the rest neutral.
func pushResponses(d Dimension, toFirst bool) []int {
	out := neutralResponses()
	for i, q := range Questions() {
		if q.Dimension != d {
			continue
		}
		agree := (q.Direction == TowardFirst) == toFirst
		if agree {
			out[i] = 5
		} else {
			out[i] = 1
		}
	}
	return out
}

func TestScore(t *testing.T) {
	cases := []struct {
		response  int
		direction Direction
		want      int
	}{
		{1, TowardFirst, -10},
		{2, TowardFirst, -5},
		{3, TowardFirst, 0},
		{4, TowardFirst, 5},
		{5, TowardFirst, 10},
		{1, TowardSecond, 10},
		{3, TowardSecond, 0},
		{5, TowardSecond, -10},
	}
	for _, tc := range cases {
		got, err := Score(tc.response, tc.direction)
		require.NoError(t, err)
		require.Equalf(t, tc.want, got, "Score(%d, %d)", tc.response, tc.direction)
	}
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	for _, r := range []int{0, 6, -3} {
		_, err := Score(r, TowardFirst)
		require.ErrorIs(t, err, ErrResponseOutOfRange)
	}
	_, err := Score(3, Direction(0))
	require.ErrorIs(t, err, ErrInvalidDirection)
	_, err = Score(3, Direction(2))
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestAccumulateNeutral(t *testing.T) {
	totals, err := Accumulate(neutralResponses())
	require.NoError(t, err)
	require.Equal(t, Scores{}, totals)
}

func TestAccumulateExtremes(t *testing.T) {
	n := DimensionQuestionCount(DimensionEI)

	totals, err := Accumulate(pushResponses(DimensionEI, true))
	require.NoError(t, err)
	require.Equal(t, Scores{EI: 10 * n}, totals)

	totals, err = Accumulate(pushResponses(DimensionEI, false))
	require.NoError(t, err)
	require.Equal(t, Scores{EI: -10 * n}, totals)

	totals, err = Accumulate(pushResponses(DimensionAT, false))
	require.NoError(t, err)
	require.Equal(t, -10*DimensionQuestionCount(DimensionAT), totals.AT)
}

func TestAccumulateLengthMismatch(t *testing.T) {
	n := QuestionCount()
	for _, size := range []int{0, n - 1, n + 1, 55, 56} {
		if size == n {
			continue
		}
		_, err := Accumulate(make([]int, size))
		require.ErrorIsf(t, err, ErrLengthMismatch, "size %d", size)
	}
}

func TestAccumulateFailsFastOnBadResponse(t *testing.T) {
	responses := neutralResponses()
	responses[7] = 9
	totals, err := Accumulate(responses)
	require.ErrorIs(t, err, ErrResponseOutOfRange)
	require.Equal(t, Scores{}, totals)
	require.Contains(t, err.Error(), "question 8")
}

func TestAccumulateByIDMatchesPositional(t *testing.T) {
	positional := pushResponses(DimensionTF, false)
	byID := make(map[string]int, len(positional))
	for i, q := range Questions() {
		byID[q.ID] = positional[i]
	}

	a, err := Accumulate(positional)
	require.NoError(t, err)
	b, err := AccumulateByID(byID)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestAccumulateByIDErrors(t *testing.T) {
	byID := make(map[string]int)
	for _, q := range Questions() {
		byID[q.ID] = 3
	}

	missing := make(map[string]int, len(byID))
	for k, v := range byID {
		missing[k] = v
	}
	delete(missing, "sn-04")
	_, err := AccumulateByID(missing)
	require.ErrorIs(t, err, ErrLengthMismatch)

	unknown := make(map[string]int, len(byID)+1)
	for k, v := range byID {
		unknown[k] = v
	}
	unknown["zz-01"] = 3
	_, err = AccumulateByID(unknown)
	require.True(t, errors.Is(err, ErrUnknownQuestion))
}

func TestScoresGet(t *testing.T) {
	s := Scores{EI: 1, SN: 2, TF: 3, JP: 4, AT: 5}
	for i, d := range Dimensions() {
		require.Equal(t, i+1, s.Get(d))
	}
	require.Zero(t, s.Get(Dimension("XX")))
}

package personality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuestionBankShape(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, 54)
	require.Equal(t, len(qs), QuestionCount())

	want := map[Dimension]int{
		DimensionEI: 11,
		DimensionSN: 11,
		DimensionTF: 11,
		DimensionJP: 11,
		DimensionAT: 10,
	}
	for d, n := range want {
		require.Equalf(t, n, DimensionQuestionCount(d), "dimension %s", d)
	}

	sum := 0
	for _, d := range Dimensions() {
		sum += DimensionQuestionCount(d)
	}
	require.Equal(t, QuestionCount(), sum)
}

func TestQuestionBankIsGroupedAndValid(t *testing.T) {
	order := Dimensions()
	block := 0
	seen := make(map[string]struct{})
	for i, q := range Questions() {
		require.NotEmptyf(t, q.Text, "question %d", i+1)
		require.Truef(t, q.Direction.valid(), "question %d direction %d", i+1, q.Direction)
		for q.Dimension != order[block] {
			block++
			require.Lessf(t, block, len(order), "question %d out of dimension order", i+1)
		}
		_, dup := seen[q.ID]
		require.Falsef(t, dup, "duplicate id %s", q.ID)
		seen[q.ID] = struct{}{}
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	qs := Questions()
	qs[0].Text = "mutated"
	qs[0].Direction = TowardSecond
	require.NotEqual(t, "mutated", Questions()[0].Text)
	require.Equal(t, TowardFirst, Questions()[0].Direction)
}

func TestQuestionLookups(t *testing.T) {
	q, ok := QuestionByID("ei-01")
	require.True(t, ok)
	require.Equal(t, DimensionEI, q.Dimension)

	last, ok := QuestionByID("at-10")
	require.True(t, ok)
	require.Equal(t, "You feel confident that things will work out for you.", last.Text)

	_, ok = QuestionByID("at-11")
	require.False(t, ok)

	first, ok := QuestionAt(1)
	require.True(t, ok)
	require.Equal(t, "ei-01", first.ID)

	_, ok = QuestionAt(0)
	require.False(t, ok)
	_, ok = QuestionAt(QuestionCount() + 1)
	require.False(t, ok)
}

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ditto/internal/personality"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func neutralAnswers() string {
	parts := make([]string, personality.QuestionCount())
	for i := range parts {
		parts[i] = "3"
	}
	return strings.Join(parts, ",")
}

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers("1, 2 3\t4,5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)

	_, err = parseAnswers("1,x,3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answer 2")
}

func TestTakeWithAnswersFlag(t *testing.T) {
	out, err := runCmd(t, "", "take", "--answers", neutralAnswers())
	require.NoError(t, err)
	assert.Contains(t, out, "ESTJ-A")
	assert.Contains(t, out, "Extraversion (E)")
	assert.Contains(t, out, "The Executive")
}

func TestTakeJSON(t *testing.T) {
	out, err := runCmd(t, "", "take", "--json", "-a", neutralAnswers())
	require.NoError(t, err)

	var ev personality.Evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, personality.Type("ESTJ-A"), ev.Type)
	assert.Len(t, ev.Dimensions, 5)
}

func TestTakeWrongCount(t *testing.T) {
	_, err := runCmd(t, "", "take", "--answers", "3,3,3")
	require.ErrorIs(t, err, personality.ErrLengthMismatch)
}

func TestTakeInteractiveRetriesInvalidInput(t *testing.T) {
	var stdin strings.Builder
	stdin.WriteString("7\nfoo\n")
	for i := 0; i < personality.QuestionCount(); i++ {
		stdin.WriteString("3\n")
	}

	out, err := runCmd(t, stdin.String(), "take")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Please answer with a number from 1 to 5."))
	assert.Contains(t, out, "ESTJ-A")
}

func TestTakeInteractiveAborted(t *testing.T) {
	_, err := runCmd(t, "3\n3\n", "take")
	require.ErrorIs(t, err, errNoMoreInput)
}

func TestDescribe(t *testing.T) {
	out, err := runCmd(t, "", "describe", "infj-t")
	require.NoError(t, err)
	assert.Contains(t, out, "INFJ-T")
	assert.Contains(t, out, "The Advocate")
	assert.Contains(t, out, "Turbulent")

	_, err = runCmd(t, "", "describe", "ABCD-A")
	require.ErrorIs(t, err, personality.ErrUnknownType)
}

func TestQuestionsFilter(t *testing.T) {
	out, err := runCmd(t, "", "questions", "--dimension", "at")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, personality.DimensionQuestionCount(personality.DimensionAT))
	assert.True(t, strings.HasPrefix(lines[0], "at-01"))
}

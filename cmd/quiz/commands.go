package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ditto/internal/personality"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	typeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const scaleHelp = "1 = strongly disagree, 3 = neutral, 5 = strongly agree"

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "quiz",
		Short:         "Ditto personality quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.AddCommand(newQuestionsCmd(), newTakeCmd(), newDescribeCmd())
	return root
}

func newQuestionsCmd() *cobra.Command {
	var (
		dimension string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the question bank",
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions := filterQuestions(personality.Questions(), dimension)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(questions)
			}
			for _, q := range questions {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", q.ID, q.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dimension, "dimension", "d", "", "Only show one dimension (EI, SN, TF, JP, AT)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print questions as JSON")
	return cmd
}

func newTakeCmd() *cobra.Command {
	var (
		answers string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Answer the quiz and print your type",
		Long: "Answer every statement on a 1-5 scale (" + scaleHelp + ").\n" +
			"Use --answers to pass all responses at once, in bank order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				responses []int
				err       error
			)
			if strings.TrimSpace(answers) != "" {
				responses, err = parseAnswers(answers)
			} else {
				responses, err = askAll(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			ev, err := personality.Evaluate(responses)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ev)
			}
			renderEvaluation(cmd.OutOrStdout(), ev)
			return nil
		},
	}
	cmd.Flags().StringVarP(&answers, "answers", "a", "", "Comma separated responses (1-5) in bank order")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the evaluation as JSON")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe TYPE",
		Short: "Describe a type such as INFJ-T",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := personality.ParseType(args[0])
			if err != nil {
				return err
			}
			res, err := personality.Describe(t)
			if err != nil {
				return err
			}
			renderDescription(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func filterQuestions(questions []personality.Question, dimension string) []personality.Question {
	dimension = strings.ToUpper(strings.TrimSpace(dimension))
	if dimension == "" {
		return questions
	}
	out := questions[:0]
	for _, q := range questions {
		if string(q.Dimension) == dimension {
			out = append(out, q)
		}
	}
	return out
}

// parseAnswers acepta "3,4,5" o "3 4 5".
func parseAnswers(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]int, 0, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, f)
		}
		out = append(out, n)
	}
	return out, nil
}

var errNoMoreInput = errors.New("quiz aborted before the last question")

// askAll pregunta en orden y repite la pregunta ante respuestas invalidas.
func askAll(in io.Reader, out io.Writer) ([]int, error) {
	scanner := bufio.NewScanner(in)
	questions := personality.Questions()
	responses := make([]int, 0, len(questions))

	fmt.Fprintln(out, headerStyle.Render("Ditto personality quiz"))
	fmt.Fprintln(out, dimStyle.Render(scaleHelp))

	for i, q := range questions {
		for {
			fmt.Fprintf(out, "\n[%d/%d] %s\n> ", i+1, len(questions), q.Text)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, err
				}
				return nil, errNoMoreInput
			}
			n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil || n < personality.MinResponse || n > personality.MaxResponse {
				fmt.Fprintf(out, "Please answer with a number from %d to %d.\n", personality.MinResponse, personality.MaxResponse)
				continue
			}
			responses = append(responses, n)
			break
		}
	}
	return responses, nil
}

func renderEvaluation(out io.Writer, ev personality.Evaluation) {
	fmt.Fprintf(out, "\n%s %s\n\n", headerStyle.Render("Your type:"), typeStyle.Render(ev.Type.String()))
	for _, d := range ev.Dimensions {
		fmt.Fprintf(out, "  %-18s %3d%%  %s\n", d.Name, d.Percentage, bar(d.Percentage))
	}
	fmt.Fprintln(out)
	renderDescription(out, ev.Description)
}

func renderDescription(out io.Writer, res personality.Result) {
	fmt.Fprintln(out, headerStyle.Render(res.FullType.String()))
	fmt.Fprintln(out, res.BaseDescription)
	fmt.Fprintln(out, dimStyle.Render(res.IdentityDescription))
}

func bar(pct int) string {
	filled := pct / 5
	return strings.Repeat("#", filled) + strings.Repeat(".", 20-filled)
}

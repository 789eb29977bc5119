package personality

// Evaluation es el resultado completo de un envio del test.
type Evaluation struct {
	Type        Type              `json:"type"`
	Dimensions  []DimensionResult `json:"dimensions"`
	Description Result            `json:"description"`
	Scores      Scores            `json:"scores"`
}

// Evaluate puntua respuestas posicionales y compone el resultado.
func Evaluate(responses []int) (Evaluation, error) {
	totals, err := Accumulate(responses)
	if err != nil {
		return Evaluation{}, err
	}
	return evaluation(totals)
}

// EvaluateByID es la variante indexada por ID de pregunta.
func EvaluateByID(responses map[string]int) (Evaluation, error) {
	totals, err := AccumulateByID(responses)
	if err != nil {
		return Evaluation{}, err
	}
	return evaluation(totals)
}

func evaluation(totals Scores) (Evaluation, error) {
	t := Classify(totals)
	desc, err := Describe(t)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Type:        t,
		Dimensions:  Breakdown(totals),
		Description: desc,
		Scores:      totals,
	}, nil
}

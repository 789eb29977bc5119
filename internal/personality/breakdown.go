package personality

// DimensionResult es la vista de presentacion de una dimension.
type DimensionResult struct {
	Dimension  Dimension `json:"dimension"`
	Name       string    `json:"name"`
	Percentage int       `json:"percentage"`
	Score      int       `json:"score"`
}

const maxPointsPerQuestion = (MaxResponse - neutralResponse) * pointsPerStep

// Percentage normaliza un total contra el maximo posible de la dimension.
func Percentage(raw, questionCount int) int {
	if questionCount <= 0 {
		return 0
	}
	if raw < 0 {
		raw = -raw
	}
	pct := raw * 100 / (questionCount * maxPointsPerQuestion)
	if pct > 100 {
		return 100
	}
	return pct
}

// Breakdown arma una entrada por dimension, en orden canonico.
func Breakdown(totals Scores) []DimensionResult {
	out := make([]DimensionResult, 0, len(axes))
	for _, a := range axes {
		total := totals.Get(a.dimension)
		out = append(out, DimensionResult{
			Dimension:  a.dimension,
			Name:       a.winner(total).label,
			Percentage: Percentage(total, DimensionQuestionCount(a.dimension)),
			Score:      total,
		})
	}
	return out
}

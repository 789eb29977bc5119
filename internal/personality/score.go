package personality

import "fmt"

const (
	MinResponse = 1
	MaxResponse = 5

	neutralResponse = 3
	pointsPerStep   = 5
)

// Scores acumula el total con signo de cada dimension. Cada evaluacion crea
// su propio valor; nunca se comparte entre llamadas.
type Scores struct {
	EI int `json:"EI"`
	SN int `json:"SN"`
	TF int `json:"TF"`
	JP int `json:"JP"`
	AT int `json:"AT"`
}

// Get devuelve el total de una dimension.
func (s Scores) Get(d Dimension) int {
	switch d {
	case DimensionEI:
		return s.EI
	case DimensionSN:
		return s.SN
	case DimensionTF:
		return s.TF
	case DimensionJP:
		return s.JP
	case DimensionAT:
		return s.AT
	}
	return 0
}

func (s *Scores) add(d Dimension, points int) {
	switch d {
	case DimensionEI:
		s.EI += points
	case DimensionSN:
		s.SN += points
	case DimensionTF:
		s.TF += points
	case DimensionJP:
		s.JP += points
	case DimensionAT:
		s.AT += points
	}
}

// Score convierte una respuesta Likert (1-5) en puntos: 1 -> -10, 3 -> 0,
// 5 -> +10, con el signo invertido cuando la pregunta apunta al segundo polo.
func Score(response int, direction Direction) (int, error) {
	if response < MinResponse || response > MaxResponse {
		return 0, fmt.Errorf("%w: %d not in [%d,%d]", ErrResponseOutOfRange, response, MinResponse, MaxResponse)
	}
	if !direction.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDirection, direction)
	}
	return (response - neutralResponse) * pointsPerStep * int(direction), nil
}

// Accumulate empareja cada respuesta con la pregunta en la misma posicion.
// La longitud se valida antes de puntuar: ante un error no hay totales parciales.
func Accumulate(responses []int) (Scores, error) {
	if len(responses) != len(questions) {
		return Scores{}, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(responses), len(questions))
	}
	var totals Scores
	for i, r := range responses {
		q := questions[i]
		points, err := Score(r, q.Direction)
		if err != nil {
			return Scores{}, fmt.Errorf("question %d (%s): %w", i+1, q.ID, err)
		}
		totals.add(q.Dimension, points)
	}
	return totals, nil
}

// AccumulateByID puntua respuestas indexadas por ID de pregunta, de modo que
// un cambio de orden en el inventario no desalinea las respuestas.
func AccumulateByID(responses map[string]int) (Scores, error) {
	for id := range responses {
		if _, ok := questionIndex[id]; !ok {
			return Scores{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
	}
	if len(responses) != len(questions) {
		return Scores{}, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(responses), len(questions))
	}
	var totals Scores
	for _, q := range questions {
		points, err := Score(responses[q.ID], q.Direction)
		if err != nil {
			return Scores{}, fmt.Errorf("question %s: %w", q.ID, err)
		}
		totals.add(q.Dimension, points)
	}
	return totals, nil
}

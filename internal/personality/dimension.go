package personality

// Dimension identifica uno de los cinco ejes bipolares del test.
type Dimension string

const (
	DimensionEI Dimension = "EI"
	DimensionSN Dimension = "SN"
	DimensionTF Dimension = "TF"
	DimensionJP Dimension = "JP"
	DimensionAT Dimension = "AT"
)

// Direction indica hacia que polo empuja un "totalmente de acuerdo".
// +1 apunta a la primera letra del par, -1 a la segunda.
type Direction int

const (
	TowardFirst  Direction = 1
	TowardSecond Direction = -1
)

func (d Direction) valid() bool {
	return d == TowardFirst || d == TowardSecond
}

type pole struct {
	letter string
	label  string
}

type axis struct {
	dimension Dimension
	first     pole
	second    pole
}

// axes define el orden canonico de las dimensiones y sus polos.
var axes = [...]axis{
	{DimensionEI, pole{"E", "Extraversion (E)"}, pole{"I", "Introversion (I)"}},
	{DimensionSN, pole{"S", "Sensing (S)"}, pole{"N", "Intuition (N)"}},
	{DimensionTF, pole{"T", "Thinking (T)"}, pole{"F", "Feeling (F)"}},
	{DimensionJP, pole{"J", "Judging (J)"}, pole{"P", "Perceiving (P)"}},
	{DimensionAT, pole{"A", "Assertive (A)"}, pole{"T", "Turbulent (T)"}},
}

// Dimensions devuelve las dimensiones en el orden en que se reportan.
func Dimensions() []Dimension {
	out := make([]Dimension, 0, len(axes))
	for _, a := range axes {
		out = append(out, a.dimension)
	}
	return out
}

// winner elige el polo segun el signo: cero pertenece al primer polo.
func (a axis) winner(total int) pole {
	if total >= 0 {
		return a.first
	}
	return a.second
}

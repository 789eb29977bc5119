package personality

import (
	"fmt"
	"strings"
)

// Type es el codigo completo, por ejemplo "INTJ-T".
type Type string

// Base devuelve las cuatro letras sin el sufijo de identidad.
func (t Type) Base() string {
	base, _, _ := strings.Cut(string(t), "-")
	return base
}

// Identity devuelve el sufijo "A" o "T" (vacio si el codigo no lo tiene).
func (t Type) Identity() string {
	_, identity, _ := strings.Cut(string(t), "-")
	return identity
}

func (t Type) String() string {
	return string(t)
}

// Classify deriva el tipo a partir de los totales. Un total de cero cae en
// el primer polo de su dimension.
func Classify(totals Scores) Type {
	var b strings.Builder
	b.Grow(6)
	for _, a := range axes {
		if a.dimension == DimensionAT {
			continue
		}
		b.WriteString(a.winner(totals.Get(a.dimension)).letter)
	}
	b.WriteByte('-')
	b.WriteString(axes[len(axes)-1].winner(totals.AT).letter)
	return Type(b.String())
}

// ParseType valida un codigo guardado previamente.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	base, identity, ok := strings.Cut(string(t), "-")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	if _, known := baseDescriptions[base]; !known {
		return "", fmt.Errorf("%w: base %q", ErrUnknownType, base)
	}
	if _, known := identityDescriptions[identity]; !known {
		return "", fmt.Errorf("%w: identity %q", ErrUnknownType, identity)
	}
	return t, nil
}

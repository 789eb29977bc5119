package personality

// Result agrupa las descripciones legibles de un tipo.
type Result struct {
	BaseDescription     string `json:"baseDescription"`
	IdentityDescription string `json:"identityDescription"`
	FullType            Type   `json:"fullType"`
}

var baseDescriptions = map[string]string{
	"INTJ": "The Architect - Strategic, innovative, and independent thinkers with a plan for everything.",
	"INTP": "The Logician - Innovative inventors with an unquenchable thirst for knowledge.",
	"ENTJ": "The Commander - Bold, imaginative, and strong-willed leaders who find a way or make one.",
	"ENTP": "The Debater - Smart and curious thinkers who love intellectual challenges.",
	"INFJ": "The Advocate - Quiet and mystical, yet inspiring and idealistic.",
	"INFP": "The Mediator - Poetic, kind, and altruistic, always eager to help a good cause.",
	"ENFJ": "The Protagonist - Charismatic and inspiring leaders, able to mesmerize their listeners.",
	"ENFP": "The Campaigner - Enthusiastic, creative, and sociable free spirits.",
	"ISTJ": "The Logistician - Practical and fact-minded, reliable and dependable.",
	"ISFJ": "The Defender - Dedicated and warm protectors, always ready to defend loved ones.",
	"ESTJ": "The Executive - Excellent administrators, unsurpassed at managing things and people.",
	"ESFJ": "The Consul - Extraordinarily caring, social, and popular people, always eager to help.",
	"ISTP": "The Virtuoso - Bold and practical experimenters, masters of all kinds of tools.",
	"ISFP": "The Adventurer - Flexible and charming artists, always ready to explore and experience something new.",
	"ESTP": "The Entrepreneur - Smart, energetic, and perceptive, living on the edge.",
	"ESFP": "The Entertainer - Spontaneous, energetic, and enthusiastic people who love life around them.",
}

var identityDescriptions = map[string]string{
	"A": "Assertive: Confident, emotionally stable, and resistant to stress.",
	"T": "Turbulent: Self-conscious, sensitive to stress, and success-driven.",
}

// Describe busca las descripciones del tipo. Puede llamarse con un codigo
// recuperado de almacenamiento, por eso valida ambas mitades.
func Describe(t Type) (Result, error) {
	parsed, err := ParseType(string(t))
	if err != nil {
		return Result{}, err
	}
	return Result{
		BaseDescription:     baseDescriptions[parsed.Base()],
		IdentityDescription: identityDescriptions[parsed.Identity()],
		FullType:            parsed,
	}, nil
}

package personality

import (
	"fmt"
	"strings"
)

// Question es un enunciado del inventario con su dimension y direccion.
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Dimension Dimension `json:"dimension"`
	Direction Direction `json:"direction"`
}

type statement struct {
	text      string
	dimension Dimension
	direction Direction
}

// bank es el inventario canonico. El orden es parte del contrato: las
// respuestas posicionales se emparejan contra esta secuencia exacta.
var bank = [...]statement{
	// Extraversion (E) vs Introversion (I)
	{"You feel comfortable just walking up to someone you find interesting and striking up a conversation.", DimensionEI, TowardFirst},
	{"You rarely worry about whether you make a good impression on people you meet.", DimensionEI, TowardFirst},
	{"You enjoy participating in team-based activities.", DimensionEI, TowardFirst},
	{"You enjoy solitary hobbies or activities more than group ones.", DimensionEI, TowardSecond},
	{"You usually wait for others to introduce themselves first at social gatherings.", DimensionEI, TowardSecond},
	{"You usually prefer to be around others rather than on your own.", DimensionEI, TowardFirst},
	{"Your friends would describe you as lively and outgoing.", DimensionEI, TowardFirst},
	{"You avoid making phone calls.", DimensionEI, TowardSecond},
	{"You can easily connect with people you have just met.", DimensionEI, TowardFirst},
	{"You would love a job that requires you to work alone most of the time.", DimensionEI, TowardSecond},
	{"You feel more drawn to busy, bustling atmospheres than to quiet, intimate places.", DimensionEI, TowardFirst},

	// Sensing (S) vs Intuition (N)
	{"You are not too interested in discussions about various interpretations of creative works.", DimensionSN, TowardFirst},
	{"You enjoy experimenting with new and untested approaches.", DimensionSN, TowardSecond},
	{"You actively seek out new experiences and knowledge areas to explore.", DimensionSN, TowardSecond},
	{"You cannot imagine yourself writing fictional stories for a living.", DimensionSN, TowardFirst},
	{"You become bored or lose interest when the discussion gets highly theoretical.", DimensionSN, TowardFirst},
	{"You are drawn to various forms of creative expression, such as writing.", DimensionSN, TowardSecond},
	{"You enjoy exploring unfamiliar ideas and viewpoints.", DimensionSN, TowardSecond},
	{"You are not too interested in discussing theories on what the world could look like in the future.", DimensionSN, TowardFirst},
	{"You believe that pondering abstract philosophical questions is a waste of time.", DimensionSN, TowardFirst},
	{"You prefer tasks that require you to come up with creative solutions rather than follow concrete steps.", DimensionSN, TowardSecond},
	{"You enjoy debating ethical dilemmas.", DimensionSN, TowardSecond},

	// Thinking (T) vs Feeling (F)
	{"People's stories and emotions speak louder to you than numbers or data.", DimensionTF, TowardSecond},
	{"You prioritize facts over people's feelings when determining a course of action.", DimensionTF, TowardFirst},
	{"You prioritize being sensitive over being completely honest.", DimensionTF, TowardSecond},
	{"You favor efficiency in decisions, even if it means disregarding some emotional aspects.", DimensionTF, TowardFirst},
	{"In disagreements, you prioritize proving your point over preserving the feelings of others.", DimensionTF, TowardFirst},
	{"You are not easily swayed by emotional arguments.", DimensionTF, TowardFirst},
	{"When facts and feelings conflict, you usually find yourself following your heart.", DimensionTF, TowardSecond},
	{"You usually base your choices on objective facts rather than emotional impressions.", DimensionTF, TowardFirst},
	{"When making decisions, you focus more on how the affected people might feel than on what is most logical or efficient.", DimensionTF, TowardSecond},
	{"If a decision feels right to you, you often act on it without needing further proof.", DimensionTF, TowardSecond},
	{"You are more likely to rely on emotional intuition than logical reasoning when making a choice.", DimensionTF, TowardSecond},

	// Judging (J) vs Perceiving (P)
	{"You prioritize and plan tasks effectively, often completing them well before the deadline.", DimensionJP, TowardFirst},
	{"You like to use organizing tools like schedules and lists.", DimensionJP, TowardFirst},
	{"You often allow the day to unfold without any schedule at all.", DimensionJP, TowardSecond},
	{"You prefer to do your chores before allowing yourself to relax.", DimensionJP, TowardFirst},
	{"You often end up doing things at the last possible moment.", DimensionJP, TowardSecond},
	{"You find it challenging to maintain a consistent work or study schedule.", DimensionJP, TowardSecond},
	{"You like to have a to-do list for each day.", DimensionJP, TowardFirst},
	{"If your plans are interrupted, your top priority is to get back on track as soon as possible.", DimensionJP, TowardFirst},
	{"Your personal work style is closer to spontaneous bursts of energy than organized and consistent efforts.", DimensionJP, TowardSecond},
	{"You complete things methodically without skipping over any steps.", DimensionJP, TowardFirst},
	{"You struggle with deadlines.", DimensionJP, TowardSecond},

	// Assertive (A) vs Turbulent (T)
	{"Even a small mistake can cause you to doubt your overall abilities and knowledge.", DimensionAT, TowardSecond},
	{"You are prone to worrying that things will take a turn for the worse.", DimensionAT, TowardSecond},
	{"Your mood can change very quickly.", DimensionAT, TowardSecond},
	{"You rarely second-guess the choices that you have made.", DimensionAT, TowardFirst},
	{"You rarely feel insecure.", DimensionAT, TowardFirst},
	{"You are still bothered by mistakes that you made a long time ago.", DimensionAT, TowardSecond},
	{"Your emotions control you more than you control them.", DimensionAT, TowardSecond},
	{"When someone thinks highly of you, you wonder how long it will take them to feel disappointed in you.", DimensionAT, TowardSecond},
	{"You often feel overwhelmed.", DimensionAT, TowardSecond},
	{"You feel confident that things will work out for you.", DimensionAT, TowardFirst},
}

var (
	questions       []Question
	questionIndex   map[string]int
	dimensionCounts map[Dimension]int
)

func init() {
	questions = make([]Question, len(bank))
	questionIndex = make(map[string]int, len(bank))
	dimensionCounts = make(map[Dimension]int, len(axes))

	for i, s := range bank {
		dimensionCounts[s.dimension]++
		q := Question{
			ID:        fmt.Sprintf("%s-%02d", strings.ToLower(string(s.dimension)), dimensionCounts[s.dimension]),
			Text:      s.text,
			Dimension: s.dimension,
			Direction: s.direction,
		}
		questions[i] = q
		questionIndex[q.ID] = i
	}
}

// Questions devuelve una copia del inventario en su orden canonico.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// QuestionCount es la cantidad de respuestas que espera Accumulate.
func QuestionCount() int {
	return len(questions)
}

// DimensionQuestionCount cuenta los enunciados de una dimension a partir del
// inventario; la normalizacion de porcentajes depende de este valor.
func DimensionQuestionCount(d Dimension) int {
	return dimensionCounts[d]
}

// QuestionByID busca un enunciado por su identificador estable.
func QuestionByID(id string) (Question, bool) {
	idx, ok := questionIndex[id]
	if !ok {
		return Question{}, false
	}
	return questions[idx], true
}

// QuestionAt devuelve el enunciado para un numero de pregunta 1-based.
func QuestionAt(num int) (Question, bool) {
	if num < 1 || num > len(questions) {
		return Question{}, false
	}
	return questions[num-1], true
}

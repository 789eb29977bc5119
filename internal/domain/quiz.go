package domain

import (
	"encoding/json"
	"time"
)

// QuizAnswer es una respuesta cruda registrada mientras el usuario avanza.
type QuizAnswer struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	QuestionNum  int       `json:"question_num"`
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question_text"`
	Answer       int       `json:"answer"`
	CreatedAt    time.Time `json:"created_at"`
}

// PersonalityRecord es lo que se persiste en users.personality_data.
// Dimensions y Description se guardan tal como llegan para no perder
// resultados calculados por clientes anteriores.
type PersonalityRecord struct {
	Type        string          `json:"type"`
	Dimensions  json.RawMessage `json:"dimensions,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	CompletedAt time.Time       `json:"completedAt"`
}

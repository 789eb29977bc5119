package domain

import "time"

const (
	AuthProviderDemo = "demo"
)

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"display_name,omitempty"`
	AuthProvider    string     `json:"auth_provider,omitempty"`
	AuthSubject     string     `json:"-"`
	PasswordHash    string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	OtpCodeHash     string     `json:"-"`
	OtpExpiresAt    *time.Time `json:"otp_expires_at,omitempty"`

	// Resultado del test de personalidad, si ya fue completado.
	PersonalityType string             `json:"personality_type,omitempty"`
	Personality     *PersonalityRecord `json:"personality,omitempty"`

	// Identificadores del gemelo en el servicio de memoria.
	TwinAssistantID string `json:"twin_assistant_id,omitempty"`
	TwinThreadID    string `json:"twin_thread_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PersonalityCompleted indica si el usuario tiene un resultado guardado.
func (u User) PersonalityCompleted() bool {
	return u.PersonalityType != "" && u.Personality != nil
}

package service

import (
	"fmt"
	"strings"

	"ditto/internal/domain"
	"ditto/internal/personality"
)

func renderPersonalityExport(user domain.User) (string, error) {
	desc, err := personality.Describe(personality.Type(user.PersonalityType))
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = "User"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PERSONALITY QUIZ RESULTS - %s\n\n", name)
	fmt.Fprintf(&b, "Email: %s\n", user.Email)
	fmt.Fprintf(&b, "Personality Type: %s\n\n", desc.FullType)

	if user.Personality != nil {
		if dims := decodeDimensions(user.Personality.Dimensions); len(dims) > 0 {
			b.WriteString("PERSONALITY DIMENSIONS:\n")
			for _, d := range dims {
				fmt.Fprintf(&b, "- %s: %d%% (score %+d)\n", d.Name, d.Percentage, d.Score)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("TYPE:\n")
	b.WriteString(desc.BaseDescription)
	b.WriteString("\n\nIDENTITY:\n")
	b.WriteString(desc.IdentityDescription)
	b.WriteString("\n")

	if user.Personality != nil && !user.Personality.CompletedAt.IsZero() {
		fmt.Fprintf(&b, "\nCompleted at: %s\n", user.Personality.CompletedAt.UTC().Format("2006-01-02"))
	}
	return b.String(), nil
}

package domain

import "fmt"

// Audience selects the travel persona the session is for.
type Audience string

const (
	AudienceTeam     Audience = "team"
	AudiencePersonal Audience = "personal"
)

// ParseAudience converts user input into an Audience.
func ParseAudience(s string) (Audience, error) {
	a := Audience(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAudience, s)
	}
	return a, nil
}

// Valid reports whether a is one of the known audiences.
func (a Audience) Valid() bool {
	return a == AudienceTeam || a == AudiencePersonal
}

// Label is the human readable name used in copy and exports.
func (a Audience) Label() string {
	switch a {
	case AudienceTeam:
		return "Team/Company Travel"
	case AudiencePersonal:
		return "Personal Travel"
	default:
		return string(a)
	}
}

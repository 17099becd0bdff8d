// Package domain contains the core concepts of the PartyVerse app.
// Entities here are plain records with the field names of the persisted
// JSON layout; no storage, UI, or transport logic belongs in this package.
package domain

// UserType is the role a user acts under.
type UserType string

const (
	TypeParticipant UserType = "participant"
	TypeHost        UserType = "host"
	TypeOwner       UserType = "owner"
	TypeAdmin       UserType = "admin"
)

// Elevated reports whether the role is always included in message fan-out.
func (t UserType) Elevated() bool {
	return t == TypeHost || t == TypeAdmin
}

func (t UserType) Valid() bool {
	switch t {
	case TypeParticipant, TypeHost, TypeOwner, TypeAdmin:
		return true
	}
	return false
}

type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	PasswordHash   string   `json:"passwordHash"`
	Type           UserType `json:"type"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	CreatedAt      string   `json:"createdAt"`
}

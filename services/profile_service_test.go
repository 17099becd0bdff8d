package services

import (
	"log/slog"
	"strings"
	"testing"

	"partyverse/domain"
	"partyverse/errors"
	"partyverse/repositories"

	"github.com/stretchr/testify/require"
)

// Smallest valid PNG header; mimetype only needs the magic bytes.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newProfileService(t *testing.T) (*ProfileService, *repositories.UserRepository, *repositories.SessionRepository) {
	t.Helper()
	db := openTestDB(t)
	log := slog.Default()
	users := repositories.NewUserRepository(db, log)
	sessions := repositories.NewSessionRepository(db, log)
	return NewProfileService(users, sessions), users, sessions
}

func TestProfileService_SetUserType(t *testing.T) {
	req := require.New(t)
	service, users, sessions := newProfileService(t)

	id, err := users.CreateUser("Alice", "alice@partyverse.com", "hashed", domain.TypeParticipant)
	req.NoError(err)
	user, err := users.GetUserByID(id)
	req.NoError(err)
	req.NoError(sessions.Save(repositories.Session{User: user, Token: "token"}))

	updated, err := service.SetUserType(id, domain.TypeHost)
	req.NoError(err)
	req.Equal(domain.TypeHost, updated.Type)

	// The active session picked up the new role.
	session, found, err := sessions.Current()
	req.NoError(err)
	req.True(found)
	req.Equal(domain.TypeHost, session.User.Type)

	_, err = service.SetUserType(id, domain.UserType("wizard"))
	req.ErrorIs(err, errors.ErrInvalidUserType)
}

func TestProfileService_SetAvatar(t *testing.T) {
	req := require.New(t)
	service, users, _ := newProfileService(t)

	id, err := users.CreateUser("Alice", "alice@partyverse.com", "hashed", domain.TypeParticipant)
	req.NoError(err)

	updated, err := service.SetAvatar(id, pngBytes)
	req.NoError(err)
	req.True(strings.HasPrefix(updated.ProfilePicture, "data:image/png;base64,"))

	stored, err := users.GetUserByID(id)
	req.NoError(err)
	req.Equal(updated.ProfilePicture, stored.ProfilePicture)
}

func TestProfileService_SetAvatar_RejectsNonImage(t *testing.T) {
	req := require.New(t)
	service, users, _ := newProfileService(t)

	id, err := users.CreateUser("Alice", "alice@partyverse.com", "hashed", domain.TypeParticipant)
	req.NoError(err)

	_, err = service.SetAvatar(id, []byte("just some text"))
	req.ErrorIs(err, errors.ErrNotAnImage)
}

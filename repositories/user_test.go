package repositories

import (
	"log/slog"
	"testing"

	"partyverse/domain"
	"partyverse/errors"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateUser_And_Lookups(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), slog.Default())

	id, err := repo.CreateUser("John Host", "host@partyverse.com", "hashed", domain.TypeHost)
	req.NoError(err)
	req.NotEmpty(id)

	byEmail, err := repo.GetUserByEmail("host@partyverse.com")
	req.NoError(err)
	req.Equal(id, byEmail.ID)
	req.Equal("John Host", byEmail.Name)
	req.Equal(domain.TypeHost, byEmail.Type)
	req.Equal("hashed", byEmail.PasswordHash)
	req.NotEmpty(byEmail.CreatedAt)

	byID, err := repo.GetUserByID(id)
	req.NoError(err)
	req.Equal(byEmail, byID)
}

func TestUserRepository_CreateUser_EmailTaken(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), slog.Default())

	_, err := repo.CreateUser("John Host", "host@partyverse.com", "hashed", domain.TypeHost)
	req.NoError(err)

	_, err = repo.CreateUser("Impostor", "host@partyverse.com", "other", domain.TypeParticipant)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_UpdateUser(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), slog.Default())

	id, err := repo.CreateUser("John Host", "host@partyverse.com", "hashed", domain.TypeParticipant)
	req.NoError(err)

	user, err := repo.GetUserByID(id)
	req.NoError(err)
	user.Type = domain.TypeHost
	req.NoError(repo.UpdateUser(user))

	updated, err := repo.GetUserByID(id)
	req.NoError(err)
	req.Equal(domain.TypeHost, updated.Type)
}

func TestUserRepository_UpdateUser_MissingRecord(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), slog.Default())

	err := repo.UpdateUser(domain.User{ID: "ghost", Email: "ghost@partyverse.com"})
	req.Error(err)
}

func TestUserRepository_All(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), slog.Default())

	_, err := repo.CreateUser("Test Admin", "admin@partyverse.com", "h1", domain.TypeAdmin)
	req.NoError(err)
	_, err = repo.CreateUser("Sarah Owner", "owner@partyverse.com", "h2", domain.TypeOwner)
	req.NoError(err)

	users, err := repo.All()
	req.NoError(err)
	req.Len(users, 2)
}

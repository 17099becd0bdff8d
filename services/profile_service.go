package services

import (
	"encoding/base64"
	"fmt"

	"partyverse/domain"
	"partyverse/errors"
	"partyverse/repositories"

	"github.com/gabriel-vasile/mimetype"
)

type IProfileService interface {
	SetUserType(userID string, userType domain.UserType) (domain.User, error)
	SetAvatar(userID string, image []byte) (domain.User, error)
}

// ProfileService handles the profile page mutations: role switching and
// avatar upload. Changes are reflected into the active session snapshot so
// the header re-renders from the new state.
type ProfileService struct {
	users    repositories.IUserRepository
	sessions repositories.ISessionRepository
}

func NewProfileService(users repositories.IUserRepository, sessions repositories.ISessionRepository) *ProfileService {
	return &ProfileService{users: users, sessions: sessions}
}

func (s *ProfileService) SetUserType(userID string, userType domain.UserType) (domain.User, error) {
	if !userType.Valid() {
		return domain.User{}, errors.ErrInvalidUserType
	}
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return domain.User{}, err
	}
	user.Type = userType
	if err := s.users.UpdateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, s.refreshSession(user)
}

// SetAvatar sniffs the upload and stores it as a data URL, the format the
// web client profile pictures used. Non-image uploads are refused.
func (s *ProfileService) SetAvatar(userID string, image []byte) (domain.User, error) {
	kind := mimetype.Detect(image)
	if !kind.Is("image/png") && !kind.Is("image/jpeg") && !kind.Is("image/gif") && !kind.Is("image/svg+xml") {
		return domain.User{}, errors.ErrNotAnImage
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return domain.User{}, err
	}
	user.ProfilePicture = fmt.Sprintf("data:%s;base64,%s",
		kind.String(), base64.StdEncoding.EncodeToString(image))
	if err := s.users.UpdateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, s.refreshSession(user)
}

func (s *ProfileService) refreshSession(user domain.User) error {
	session, found, err := s.sessions.Current()
	if err != nil || !found || session.User.ID != user.ID {
		return err
	}
	session.User = user
	return s.sessions.Save(session)
}

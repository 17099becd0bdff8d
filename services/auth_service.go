package services

import (
	"fmt"

	"partyverse/auth"
	"partyverse/domain"
	"partyverse/errors"
	"partyverse/repositories"
)

type IAuthService interface {
	Register(name, email, password string, userType domain.UserType) (domain.User, error)
	Login(email, password string) (domain.User, error)
	Logout() error
	CurrentUser() (domain.User, error)
}

// AuthService implements the local login flow: credentials are checked
// against the user table and a successful login writes the session record,
// the app's only notion of "being logged in".
type AuthService struct {
	users    repositories.IUserRepository
	sessions repositories.ISessionRepository
	signer   auth.TokenSigner
}

func NewAuthService(users repositories.IUserRepository, sessions repositories.ISessionRepository,
	signer auth.TokenSigner) *AuthService {
	return &AuthService{users: users, sessions: sessions, signer: signer}
}

func (s *AuthService) Register(name, email, password string, userType domain.UserType) (domain.User, error) {
	if !userType.Valid() {
		return domain.User{}, errors.ErrInvalidUserType
	}
	req := auth.RegisterRequest{Name: name, Email: email, Password: password}
	if err := auth.ValidateRegister(req); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hash here so the repository never sees a plain password.
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.users.CreateUser(name, email, hashed, userType)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.GetUserByID(userID)
}

func (s *AuthService) Login(email, password string) (domain.User, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return domain.User{}, errors.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		// Same error whether the account or the password is wrong.
		return domain.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return domain.User{}, errors.ErrInvalidCredentials
	}

	token, err := s.signer.Generate(user.ID, string(user.Type))
	if err != nil {
		return domain.User{}, errors.ErrTokenGeneration
	}
	if err := s.sessions.Save(repositories.Session{User: user, Token: token}); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) Logout() error {
	return s.sessions.Clear()
}

// CurrentUser resolves the active session. An expired or tampered token
// clears the session and reads as logged out.
func (s *AuthService) CurrentUser() (domain.User, error) {
	session, found, err := s.sessions.Current()
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, errors.ErrNotLoggedIn
	}
	if _, err := s.signer.Validate(session.Token); err != nil {
		_ = s.sessions.Clear()
		return domain.User{}, errors.ErrNotLoggedIn
	}
	return session.User, nil
}

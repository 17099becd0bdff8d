package errors

import "fmt"

var (
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrNotLoggedIn        = fmt.Errorf("no active session")
	ErrPartyNotFound      = fmt.Errorf("party not found")
	ErrPartyFull          = fmt.Errorf("party is at capacity")
	ErrVenueNotFound      = fmt.Errorf("venue not found")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrEmptyMessage       = fmt.Errorf("message text is empty")
	ErrNotAnImage         = fmt.Errorf("avatar is not an image")
	ErrInvalidUserType    = fmt.Errorf("unknown user type")
)

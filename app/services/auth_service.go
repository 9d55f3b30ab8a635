package services

import (
	"errors"

	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/auth"
)

// AuthService implements the login use case against the credential
// store. It never reveals whether the username or the password was the
// wrong half of a failed attempt.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// LoginResult is what a successful login returns: identifier and
// username only, never the password or its hash.
type LoginResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Login verifies a username/password pair.
//
// An unknown username and a wrong password both produce the identical
// generic Authentication error, so the response cannot be used to
// enumerate accounts.
func (s *AuthService) Login(username, password string) (LoginResult, error) {
	errs := make(map[string]string)
	if username == "" {
		errs["username"] = "The username field is required."
	}
	if password == "" {
		errs["password"] = "The password field is required."
	}
	if len(errs) > 0 {
		return LoginResult{}, apperr.NewValidation(errs)
	}

	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return LoginResult{}, apperr.NewAuthentication()
		}
		return LoginResult{}, apperr.WrapStorage(err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return LoginResult{}, apperr.NewAuthentication()
	}

	return LoginResult{ID: user.ID, Username: user.Username}, nil
}

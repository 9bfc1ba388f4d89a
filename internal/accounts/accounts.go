// Package accounts implements signup, credential checks and OAuth provisioning on top
// of the user repository.
package accounts

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/eadcode/OnlineDatingApp/internal/apperrors"
	"github.com/eadcode/OnlineDatingApp/internal/identity"
	"github.com/eadcode/OnlineDatingApp/internal/models"
	"github.com/eadcode/OnlineDatingApp/internal/repositories"
)

// HashCost is the bcrypt cost for stored credentials.
const HashCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var ErrInvalidCredentials = apperrors.Unauthenticated("invalid email or password")

// SignupInput is the signup form.
type SignupInput struct {
	Fullname  string `form:"fullname" json:"fullname"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	Password2 string `form:"password2" json:"password2"`
}

// Service owns account lifecycle rules.
type Service struct {
	users          repositories.UserRepository
	minPasswordLen int
}

// NewService builds a Service.
func NewService(users repositories.UserRepository, minPasswordLen int) *Service {
	return &Service{users: users, minPasswordLen: minPasswordLen}
}

// MinPasswordLength is the shortest accepted password.
func (s *Service) MinPasswordLength() int {
	return s.minPasswordLen
}

// Signup validates in and creates a local account. Nothing is written when validation fails.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Fullname = strings.TrimSpace(in.Fullname)

	fields := map[string]string{}
	if in.Fullname == "" {
		fields["fullname"] = "is required"
	}
	if in.Email == "" {
		fields["email"] = "is required"
	}
	if in.Password != in.Password2 {
		fields["password2"] = "passwords do not match"
	}
	if len(in.Password) < s.minPasswordLen {
		fields["password"] = "must be at least " + strconv.Itoa(s.minPasswordLen) + " characters"
	} else if len(in.Password) > MaxPasswordBytes {
		fields["password"] = "must be at most " + strconv.Itoa(MaxPasswordBytes) + " bytes"
	}
	if len(fields) > 0 {
		return models.User{}, apperrors.Validation("invalid signup", fields)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, repositories.ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), HashCost)
	if err != nil {
		return models.User{}, err
	}
	hashed := string(hash)
	return s.users.Create(ctx, models.NewUser{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: &hashed,
	})
}

// Authenticate checks a local credential pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if user.PasswordHash == nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ProvisionOAuth finds the account for an OAuth profile: by provider id, then by
// verified email (linking the provider), and creates one on first login.
// An unverified email is never linked or stored.
func (s *Service) ProvisionOAuth(ctx context.Context, p identity.Profile) (models.User, bool, error) {
	user, err := s.users.FindByProvider(ctx, p.Provider, p.ProviderUserID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, false, err
	}

	email := p.Email
	if !p.EmailVerified {
		email = ""
	}
	if email != "" {
		user, err = s.users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if err := s.users.LinkProvider(ctx, user.ID, p.Provider, p.ProviderUserID); err != nil {
				return models.User{}, false, err
			}
			return user, false, nil
		case !errors.Is(err, repositories.ErrUserNotFound):
			return models.User{}, false, err
		}
	}

	providerID := p.ProviderUserID
	nu := models.NewUser{
		Firstname: p.GivenName,
		Lastname:  p.FamilyName,
		Fullname:  p.DisplayName,
		Email:     email,
		Image:     p.AvatarURL,
	}
	switch p.Provider {
	case repositories.ProviderFacebook:
		nu.FacebookID = &providerID
	case repositories.ProviderGoogle:
		nu.GoogleID = &providerID
	}
	user, err = s.users.Create(ctx, nu)
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

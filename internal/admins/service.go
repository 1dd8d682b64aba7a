package admins

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/byteedoc/portfolio-api/pkg/logger"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
// so a login response never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service encapsulates admin account business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Authenticate checks a username/password pair against the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Admin, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if a == nil || a.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// GetBySubject resolves a token subject back to an account. Password
// accounts use the username as their subject.
func (s *Service) GetBySubject(ctx context.Context, sub string) (*Admin, error) {
	a, err := s.repo.GetBySub(ctx, sub)
	if err != nil {
		return nil, err
	}
	if a != nil {
		return a, nil
	}
	return s.repo.GetByUsername(ctx, sub)
}

// UpsertFromClaims creates or updates an admin from OIDC claims after an
// SSO login.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Admin, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	username, _ := claims["preferred_username"].(string)
	if sub == "" {
		return nil, nil
	}
	if username == "" {
		username = email
	}
	a := &Admin{
		Sub:      sub,
		Username: username,
		Email:    email,
		Name:     name,
	}
	return s.repo.UpsertBySub(ctx, a)
}

// Bootstrap seeds the initial admin account when the collection is empty.
// With no password configured the seed is skipped, which leaves SSO as the
// only way in.
func (s *Service) Bootstrap(ctx context.Context, username, password, email string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		logger.Warnf("admins: no accounts and no ADMIN_PASSWORD set, skipping bootstrap")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.repo.Insert(ctx, &Admin{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return err
	}
	logger.Infof("admins: bootstrapped initial account %q", username)
	return nil
}

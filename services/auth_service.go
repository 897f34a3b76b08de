// services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"invoice-dashboard/models"
	"invoice-dashboard/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CredentialsStrategy = "credentials"

type AuthErrorType string

const (
	CredentialsSignin  AuthErrorType = "CredentialsSignin"
	CallbackRouteError AuthErrorType = "CallbackRouteError"
	InvalidProvider    AuthErrorType = "InvalidProvider"
)

// AuthError is an expected sign-in failure. Anything else returned by an
// IdentityProvider is treated as unexpected.
type AuthError struct {
	Type AuthErrorType
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return string(e.Type)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type Session struct {
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
}

type IdentityProvider interface {
	SignIn(ctx context.Context, strategy string, fields utils.Fields) (*Session, error)
}

type AuthService struct {
	provider IdentityProvider
}

func NewAuthService(provider IdentityProvider) *AuthService {
	return &AuthService{provider: provider}
}

// Authenticate signs in with the credentials strategy. A recognised
// authentication failure comes back as a user-facing message; any other
// error is returned untouched.
func (s *AuthService) Authenticate(ctx context.Context, fields utils.Fields) (*Session, string, error) {
	session, err := s.provider.SignIn(ctx, CredentialsStrategy, fields)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			switch authErr.Type {
			case CredentialsSignin:
				return nil, "Invalid credentials.", nil
			default:
				return nil, "Something went wrong.", nil
			}
		}
		return nil, "", err
	}
	return session, "", nil
}

// CredentialsProvider verifies an email/password pair against the users
// table and issues a signed session token.
type CredentialsProvider struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewCredentialsProvider(db *gorm.DB, secret string, ttl time.Duration) *CredentialsProvider {
	return &CredentialsProvider{db: db, secret: secret, ttl: ttl, now: time.Now}
}

func (p *CredentialsProvider) SignIn(ctx context.Context, strategy string, fields utils.Fields) (*Session, error) {
	if strategy != CredentialsStrategy {
		return nil, &AuthError{Type: InvalidProvider, Err: fmt.Errorf("unknown strategy %q", strategy)}
	}

	creds, errs := utils.ValidateCredentials(fields)
	if len(errs) > 0 {
		return nil, &AuthError{Type: CredentialsSignin}
	}

	var user models.User
	err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(creds.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Type: CredentialsSignin}
		}
		return nil, &AuthError{Type: CallbackRouteError, Err: fmt.Errorf("fetch user: %w", err)}
	}

	if !utils.CheckPasswordHash(creds.Password, user.Password) {
		return nil, &AuthError{Type: CredentialsSignin}
	}

	now := p.now()
	token, err := utils.GenerateToken(p.secret, user.ID.String(), p.ttl, now)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := p.db.WithContext(ctx).Model(&user).Update("last_login", &now).Error; err != nil {
		log.Printf("Failed to record login for user %s: %v", user.ID, err)
	}

	return &Session{UserID: user.ID, Token: token, ExpiresAt: now.Add(p.ttl)}, nil
}

// EnsureUser creates the account for email unless one already exists.
func EnsureUser(ctx context.Context, db *gorm.DB, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up user: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: password}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.Printf("Seeded user %s", email)
	return nil
}

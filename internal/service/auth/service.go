package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/ratan2401/JobSphere/internal/domain"
	"github.com/ratan2401/JobSphere/internal/repository"
	"github.com/ratan2401/JobSphere/pkg/config"
	"github.com/ratan2401/JobSphere/pkg/crypto"
	jwtpkg "github.com/ratan2401/JobSphere/pkg/jwt"
)

// Service handles registration, login, tokens, and profile management.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.APIConfig
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

var (
	// ErrMissingFields indicates a required registration field was absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrEmailTaken indicates the email identity field collides.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrUsernameTaken indicates the username identity field collides.
	ErrUsernameTaken = errors.New("user with this username already exists")
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike so callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a missing, malformed, expired, or forged token.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// RegisterInput carries registration fields.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates an account with a bcrypt-hashed password. Email collisions
// are reported before username collisions when both exist.
func (s Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if name == "" || username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	// Pre-checks give a field-specific message; the unique indexes are the
	// actual guarantee under concurrent registration.
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and returns a signed bearer token alongside the
// public profile.
func (s Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := crypto.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := jwtpkg.GenerateToken(user.ID, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Authorize validates a bearer token and returns the embedded user id.
// Tokens are stateless: validity is determined by signature and expiry only.
func (s Service) Authorize(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", ErrInvalidToken
	}
	claims, err := jwtpkg.Parse(trimmed, s.cfg.JWTSecret)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// Profile returns the account for the given id.
func (s Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateProfile applies a partial update. Omitted fields keep their prior
// value; name is replaced only when non-empty, the remaining fields are
// replaced verbatim including the empty string.
func (s Service) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		user.Name = *patch.Name
	}
	if patch.College != nil {
		user.College = *patch.College
	}
	if patch.Company != nil {
		user.Company = *patch.Company
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}

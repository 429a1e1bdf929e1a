package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ratan2401/JobSphere/internal/domain"
	"github.com/ratan2401/JobSphere/internal/repository"
	"github.com/ratan2401/JobSphere/pkg/config"
	"github.com/ratan2401/JobSphere/pkg/crypto"
)

type stubUserRepository struct {
	byEmail    map[string]*domain.User
	byUsername map[string]*domain.User
	byID       map[string]*domain.User
	created    []*domain.User
	updated    []*domain.User
	createErr  error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{
		byEmail:    map[string]*domain.User{},
		byUsername: map[string]*domain.User{},
		byID:       map[string]*domain.User{},
	}
}

func (s *stubUserRepository) add(user *domain.User) {
	s.byEmail[user.Email] = user
	s.byUsername[user.Username] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, user)
	s.add(user)
	return nil
}

func (s *stubUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if user, ok := s.byEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if user, ok := s.byUsername[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := s.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	if _, ok := s.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	s.updated = append(s.updated, user)
	s.add(user)
	return nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.APIConfig {
	return config.APIConfig{JWTSecret: "test-secret", TokenTTL: 7 * 24 * time.Hour}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := New(newStubUserRepository(), newLogger(), testConfig())
	cases := []RegisterInput{
		{Username: "u", Email: "a@b.c", Password: "pw"},
		{Name: "n", Email: "a@b.c", Password: "pw"},
		{Name: "n", Username: "u", Password: "pw"},
		{Name: "n", Username: "u", Email: "a@b.c"},
	}
	for _, input := range cases {
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("input %+v: expected ErrMissingFields, got %v", input, err)
		}
	}
}

func TestRegisterHashesPasswordAndStoresUser(t *testing.T) {
	repo := newStubUserRepository()
	svc := New(repo, newLogger(), testConfig())

	user, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha", Username: "asha", Email: "asha@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.created))
	}
	if string(user.PasswordHash) == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if err := crypto.ComparePassword(user.PasswordHash, "hunter22"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if user.ID == "" || user.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", user)
	}
}

func TestRegisterReportsEmailCollisionBeforeUsername(t *testing.T) {
	repo := newStubUserRepository()
	repo.add(&domain.User{ID: "u1", Email: "taken@example.com", Username: "taken"})
	svc := New(repo, newLogger(), testConfig())

	// Same email, different username.
	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Username: "fresh", Email: "taken@example.com", Password: "pw",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Same username, different email.
	_, err = svc.Register(context.Background(), RegisterInput{
		Name: "A", Username: "taken", Email: "fresh@example.com", Password: "pw",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Both collide: email wins per lookup order.
	_, err = svc.Register(context.Background(), RegisterInput{
		Name: "A", Username: "taken", Email: "taken@example.com", Password: "pw",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken when both collide, got %v", err)
	}
}

func TestRegisterMapsStorageDuplicateToConflict(t *testing.T) {
	repo := newStubUserRepository()
	repo.createErr = repository.ErrDuplicateEmail
	svc := New(repo, newLogger(), testConfig())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Username: "u", Email: "a@b.c", Password: "pw",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from storage race, got %v", err)
	}
}

func TestLoginReturnsSameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	repo := newStubUserRepository()
	hash, err := crypto.HashPassword("correct")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.add(&domain.User{ID: "u1", Email: "known@example.com", Username: "known", PasswordHash: hash})
	svc := New(repo, newLogger(), testConfig())

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, wrongErr := svc.Login(context.Background(), "known@example.com", "incorrect")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newStubUserRepository()
	hash, err := crypto.HashPassword("correct")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.add(&domain.User{ID: "u1", Email: "known@example.com", Username: "known", PasswordHash: hash})
	svc := New(repo, newLogger(), testConfig())

	user, token, err := svc.Login(context.Background(), "known@example.com", "correct")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" || token == "" {
		t.Fatalf("unexpected login result: user=%+v token=%q", user, token)
	}
	userID, err := svc.Authorize(token)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("unexpected user id from token: %q", userID)
	}
}

func TestAuthorizeRejectsBadTokens(t *testing.T) {
	svc := New(newStubUserRepository(), newLogger(), testConfig())
	for _, token := range []string{"", "  ", "garbage", "a.b.c"} {
		if _, err := svc.Authorize(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}

	expired := New(newStubUserRepository(), newLogger(), config.APIConfig{JWTSecret: "test-secret", TokenTTL: -time.Minute})
	repo := newStubUserRepository()
	hash, _ := crypto.HashPassword("pw")
	repo.add(&domain.User{ID: "u1", Email: "e@x.c", Username: "u", PasswordHash: hash})
	expired.users = repo
	_, token, err := expired.Login(context.Background(), "e@x.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := expired.Authorize(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestUpdateProfileAppliesPartialPatch(t *testing.T) {
	repo := newStubUserRepository()
	repo.add(&domain.User{
		ID: "u1", Name: "Asha", Username: "asha", Email: "asha@example.com",
		College: "MIT", Company: "Acme",
	})
	svc := New(repo, newLogger(), testConfig())

	phone := "555"
	updated, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfilePatch{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "555" {
		t.Fatalf("phone not applied: %+v", updated)
	}
	if updated.Name != "Asha" || updated.College != "MIT" || updated.Company != "Acme" {
		t.Fatalf("omitted fields changed: %+v", updated)
	}

	// Empty name is ignored; empty college clears the field.
	empty := ""
	updated, err = svc.UpdateProfile(context.Background(), "u1", domain.ProfilePatch{Name: &empty, College: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Asha" {
		t.Fatalf("empty name should not replace: %+v", updated)
	}
	if updated.College != "" {
		t.Fatalf("empty college should clear: %+v", updated)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := New(newStubUserRepository(), newLogger(), testConfig())
	if _, err := svc.UpdateProfile(context.Background(), "ghost", domain.ProfilePatch{}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

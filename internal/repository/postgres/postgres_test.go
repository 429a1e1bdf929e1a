package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ratan2401/JobSphere/internal/repository"
)

func TestLikePatternEscapesMetacharacters(t *testing.T) {
	cases := map[string]string{
		"react":    "%react%",
		"100%":     `%100\%%`,
		"c_plus":   `%c\_plus%`,
		`back\end`: `%back\\end%`,
		"":         "%%",
	}
	for input, want := range cases {
		if got := likePattern(input); got != want {
			t.Fatalf("likePattern(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMapConstraintViolationUniqueIndexes(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", repository.ErrDuplicateEmail},
		{"users_username_key", repository.ErrDuplicateUsername},
		{"applications_job_id_email_key", repository.ErrDuplicateApplication},
	}
	for _, tc := range cases {
		err := mapConstraintViolation(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})
		if !errors.Is(err, tc.want) {
			t.Fatalf("constraint %s mapped to %v, want %v", tc.constraint, err, tc.want)
		}
	}
}

func TestMapConstraintViolationForeignKeys(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "applications_job_id_fkey"}
	if err := mapConstraintViolation(fk); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign key violation, got %v", err)
	}
}

func TestMapConstraintViolationPassesThroughOtherErrors(t *testing.T) {
	original := errors.New("connection reset")
	if got := mapConstraintViolation(original); got != original {
		t.Fatalf("expected passthrough, got %v", got)
	}
	unknown := &pgconn.PgError{Code: "40001"}
	if got := mapConstraintViolation(unknown); got != error(unknown) {
		t.Fatalf("expected serialization error untouched, got %v", got)
	}
}

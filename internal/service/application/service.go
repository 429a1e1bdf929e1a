package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/ratan2401/JobSphere/internal/domain"
	"github.com/ratan2401/JobSphere/internal/repository"
)

// Service handles job application submission and retrieval.
type Service struct {
	applications repository.ApplicationRepository
	logger       *slog.Logger
}

// New returns an application service.
func New(applications repository.ApplicationRepository, logger *slog.Logger) Service {
	return Service{applications: applications, logger: logger}
}

var (
	// ErrMissingFields indicates jobId, name, email, or mobile was absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrAlreadyApplied indicates a prior application exists for the
	// same (job, email) pair.
	ErrAlreadyApplied = errors.New("you have already applied to this job")
	// ErrJobNotFound indicates the referenced job does not exist.
	ErrJobNotFound = errors.New("job not found")
)

// SubmitInput carries application fields. ApplicantID is the authenticated
// user when present; Resume is a filename reference only.
type SubmitInput struct {
	JobID       string
	ApplicantID string
	Name        string
	Email       string
	Mobile      string
	College     string
	Skills      string
	Resume      string
}

// Submit stores one application per (job, email) pair. The pre-check keeps
// the error friendly; the unique index makes the pair safe under concurrent
// identical submissions.
func (s Service) Submit(ctx context.Context, input SubmitInput) (*domain.Application, error) {
	jobID := strings.TrimSpace(input.JobID)
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	mobile := strings.TrimSpace(input.Mobile)
	if jobID == "" || name == "" || email == "" || mobile == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.applications.GetApplicationByJobAndEmail(ctx, jobID, email); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	application := &domain.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		ApplicantID: strings.TrimSpace(input.ApplicantID),
		Name:        name,
		Email:       email,
		Mobile:      mobile,
		College:     strings.TrimSpace(input.College),
		Skills:      strings.TrimSpace(input.Skills),
		Resume:      strings.TrimSpace(input.Resume),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.applications.CreateApplication(ctx, application); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateApplication):
			return nil, ErrAlreadyApplied
		case errors.Is(err, repository.ErrNotFound):
			// The job_id reference did not resolve at insert time.
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	s.logger.Info("application submitted", "application_id", application.ID, "job_id", jobID)
	return application, nil
}

// ListByJob returns applications for the job, newest first. Unknown job ids
// yield an empty slice rather than an error.
func (s Service) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return s.applications.ListApplicationsByJob(ctx, strings.TrimSpace(jobID))
}

package repository

import (
	"context"

	"github.com/ratan2401/JobSphere/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// JobRepository persists job postings.
type JobRepository interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	SearchJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	RecommendJobs(ctx context.Context, skills []string, limit int) ([]domain.Job, error)
}

// ApplicationRepository persists job applications.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application *domain.Application) error
	GetApplicationByJobAndEmail(ctx context.Context, jobID, email string) (*domain.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]domain.Application, error)
}

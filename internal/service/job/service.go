package job

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
)

// Service orchestrates job postings and search.
type Service struct {
	jobs   repository.JobRepository
	logger *slog.Logger
	cfg    config.APIConfig
}

// New returns a job service.
func New(jobs repository.JobRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{jobs: jobs, logger: logger, cfg: cfg}
}

var (
	// ErrMissingTitle indicates the title field was absent.
	ErrMissingTitle = errors.New("job title is required")
	// ErrMissingCompany indicates the company field was absent.
	ErrMissingCompany = errors.New("job company is required")
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
	maxSearchPage      = 10000
	recommendLimit     = 5
)

// CreateInput carries job posting attributes.
type CreateInput struct {
	Title       string
	Company     string
	Location    string
	Skills      []string
	Experience  string
	Education   string
	Salary      *float64
	Description string
}

// Create stores a posting owned by the given user. Skills are kept as an
// ordered sequence of trimmed, non-empty strings.
func (s Service) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Job, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(input.Company) == "" {
		return nil, ErrMissingCompany
	}
	job := &domain.Job{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		Skills:      NormalizeSkills(input.Skills),
		Experience:  strings.TrimSpace(input.Experience),
		Education:   strings.TrimSpace(input.Education),
		Salary:      input.Salary,
		Description: input.Description,
		PostedBy:    ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info("job posted", "job_id", job.ID, "posted_by", ownerID)
	return job, nil
}

// Search returns postings matching the filter, newest first. Page and limit
// are normalized to their defaults and the limit is capped so a single
// request cannot pull an unbounded result set.
func (s Service) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	return s.jobs.SearchJobs(ctx, s.normalizeFilter(filter))
}

func (s Service) normalizeFilter(filter domain.JobFilter) domain.JobFilter {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Location = strings.TrimSpace(filter.Location)
	if filter.Page <= 0 {
		filter.Page = 1
	}
	// Bounded so the page*limit offset stays within integer range.
	if filter.Page > maxSearchPage {
		filter.Page = maxSearchPage
	}
	defaultLimit := s.cfg.SearchLimit
	if defaultLimit <= 0 {
		defaultLimit = defaultSearchLimit
	}
	maxLimit := s.cfg.SearchMaxLimit
	if maxLimit <= 0 {
		maxLimit = maxSearchLimit
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return filter
}

// Recommend returns up to five of the newest postings sharing at least one
// skill with the given set.
func (s Service) Recommend(ctx context.Context, skills []string) ([]domain.Job, error) {
	normalized := NormalizeSkills(skills)
	if len(normalized) == 0 {
		return []domain.Job{}, nil
	}
	return s.jobs.RecommendJobs(ctx, normalized, recommendLimit)
}

// NormalizeSkills trims each entry and drops empties, preserving order.
func NormalizeSkills(skills []string) []string {
	normalized := make([]string, 0, len(skills))
	for _, skill := range skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

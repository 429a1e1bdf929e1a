package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratan2401/JobSphere/internal/domain"
	"github.com/ratan2401/JobSphere/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository        = (*Repository)(nil)
	_ repository.JobRepository         = (*Repository)(nil)
	_ repository.ApplicationRepository = (*Repository)(nil)
)

// mapConstraintViolation translates constraint errors into sentinels: unique
// violations map per constraint, foreign key violations mean the referenced
// row does not exist. The constraints are the durable guarantee;
// application-level pre-checks only exist for friendlier messages.
func mapConstraintViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		switch pgErr.ConstraintName {
		case "users_email_key":
			return repository.ErrDuplicateEmail
		case "users_username_key":
			return repository.ErrDuplicateUsername
		case "applications_job_id_email_key":
			return repository.ErrDuplicateApplication
		}
	case "23503":
		return repository.ErrNotFound
	}
	return err
}

// likePattern builds a LIKE pattern matching the input as a literal
// case-insensitive substring. Pattern metacharacters in the input are
// escaped so they carry no special meaning.
func likePattern(input string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(input) + "%"
}

// CreateUser inserts a user.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, name, username, email, password_hash, college, company, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.College,
		user.Company,
		user.Phone,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapConstraintViolation(err)
}

const userColumns = `id, name, username, email, password_hash, college, company, phone, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.College, &u.Company, &u.Phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByUsername fetches a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// UpdateUser persists mutable profile fields. Identity fields stay untouched.
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	const query = `UPDATE users
		SET name = $2,
			college = $3,
			company = $4,
			phone = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	row := r.pool.QueryRow(ctx, query, user.ID, user.Name, user.College, user.Company, user.Phone)
	if err := row.Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// CreateJob inserts a job posting.
func (r *Repository) CreateJob(ctx context.Context, job *domain.Job) error {
	const query = `INSERT INTO jobs (id, title, company, location, skills, experience, education, salary, description, posted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Skills,
		job.Experience,
		job.Education,
		job.Salary,
		job.Description,
		job.PostedBy,
		job.CreatedAt,
	)
	return mapConstraintViolation(err)
}

const jobColumns = `id, title, company, location, skills, experience, education, salary, description, posted_by, created_at`

// SearchJobs returns postings matching the filter, newest first. The skill
// query ORs a substring match over title, company, and each skill element;
// the location condition ANDs a substring match over location.
func (r *Repository) SearchJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	const query = `SELECT ` + jobColumns + `
		FROM jobs
		WHERE ($1 = ''
			OR title ILIKE $2
			OR company ILIKE $2
			OR EXISTS (SELECT 1 FROM unnest(skills) AS skill WHERE skill ILIKE $2))
		AND ($3 = '' OR location ILIKE $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6`
	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.pool.Query(ctx, query,
		filter.Query,
		likePattern(filter.Query),
		filter.Location,
		likePattern(filter.Location),
		filter.Limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// RecommendJobs returns the newest postings whose skill set intersects the
// provided skills, compared case-insensitively.
func (r *Repository) RecommendJobs(ctx context.Context, skills []string, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT ` + jobColumns + `
		FROM jobs
		WHERE EXISTS (
			SELECT 1 FROM unnest(skills) AS skill
			WHERE LOWER(skill) = ANY($1)
		)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	lowered := make([]string, 0, len(skills))
	for _, skill := range skills {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(skill)))
	}
	rows, err := r.pool.Query(ctx, query, lowered, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows pgx.Rows) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0)
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Skills, &j.Experience, &j.Education, &j.Salary, &j.Description, &j.PostedBy, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CreateApplication inserts an application. A concurrent duplicate submission
// surfaces as ErrDuplicateApplication via the unique index.
func (r *Repository) CreateApplication(ctx context.Context, application *domain.Application) error {
	const query = `INSERT INTO applications (id, job_id, applicant_id, name, email, mobile, college, skills, resume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		application.ID,
		application.JobID,
		emptyToNil(application.ApplicantID),
		application.Name,
		application.Email,
		application.Mobile,
		application.College,
		application.Skills,
		application.Resume,
		application.CreatedAt,
	)
	return mapConstraintViolation(err)
}

const applicationColumns = `id, job_id, COALESCE(applicant_id::text, ''), name, email, mobile, college, skills, resume, created_at`

// GetApplicationByJobAndEmail looks up a prior application for the pair.
func (r *Repository) GetApplicationByJobAndEmail(ctx context.Context, jobID, email string) (*domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND email = $2`
	row := r.pool.QueryRow(ctx, query, jobID, email)
	var a domain.Application
	if err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Name, &a.Email, &a.Mobile, &a.College, &a.Skills, &a.Resume, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListApplicationsByJob returns applications for the job, newest first. An
// unknown job id yields an empty slice.
func (r *Repository) ListApplicationsByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	const query = `SELECT ` + applicationColumns + `
		FROM applications WHERE job_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]domain.Application, 0)
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Name, &a.Email, &a.Mobile, &a.College, &a.Skills, &a.Resume, &a.CreatedAt); err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

func emptyToNil(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

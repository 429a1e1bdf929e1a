package job

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/ratan2401/JobSphere/internal/domain"
	"github.com/ratan2401/JobSphere/pkg/config"
)

type stubJobRepository struct {
	created    []*domain.Job
	lastFilter domain.JobFilter
	lastSkills []string
	lastLimit  int
	searchResp []domain.Job
}

func (s *stubJobRepository) CreateJob(ctx context.Context, job *domain.Job) error {
	s.created = append(s.created, job)
	return nil
}

func (s *stubJobRepository) SearchJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	s.lastFilter = filter
	return append([]domain.Job(nil), s.searchResp...), nil
}

func (s *stubJobRepository) RecommendJobs(ctx context.Context, skills []string, limit int) ([]domain.Job, error) {
	s.lastSkills = skills
	s.lastLimit = limit
	return append([]domain.Job(nil), s.searchResp...), nil
}

func newService(repo *stubJobRepository) Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, log, config.APIConfig{})
}

func TestCreateRequiresTitleAndCompany(t *testing.T) {
	svc := newService(&stubJobRepository{})
	if _, err := svc.Create(context.Background(), "u1", CreateInput{Company: "Acme"}); !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", CreateInput{Title: "Dev"}); !errors.Is(err, ErrMissingCompany) {
		t.Fatalf("expected ErrMissingCompany, got %v", err)
	}
}

func TestCreateNormalizesSkillsAndSetsOwner(t *testing.T) {
	repo := &stubJobRepository{}
	svc := newService(repo)

	created, err := svc.Create(context.Background(), "u1", CreateInput{
		Title:   "  React Developer ",
		Company: "Acme",
		Skills:  []string{" React ", "", "Node", "  "},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PostedBy != "u1" {
		t.Fatalf("owner not recorded: %+v", created)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp: %+v", created)
	}
	if want := []string{"React", "Node"}; !reflect.DeepEqual(created.Skills, want) {
		t.Fatalf("skills = %v, want %v", created.Skills, want)
	}
	if created.Title != "React Developer" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
}

func TestSearchAppliesDefaults(t *testing.T) {
	repo := &stubJobRepository{}
	svc := newService(repo)

	if _, err := svc.Search(context.Background(), domain.JobFilter{Query: " react "}); err != nil {
		t.Fatalf("search: %v", err)
	}
	got := repo.lastFilter
	if got.Query != "react" {
		t.Fatalf("query not trimmed: %q", got.Query)
	}
	if got.Page != 1 || got.Limit != 50 {
		t.Fatalf("defaults not applied: page=%d limit=%d", got.Page, got.Limit)
	}
}

func TestSearchCapsLimit(t *testing.T) {
	repo := &stubJobRepository{}
	svc := newService(repo)

	if _, err := svc.Search(context.Background(), domain.JobFilter{Page: 3, Limit: 10_000}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if repo.lastFilter.Limit != 100 {
		t.Fatalf("limit not capped: %d", repo.lastFilter.Limit)
	}
	if repo.lastFilter.Page != 3 {
		t.Fatalf("page altered: %d", repo.lastFilter.Page)
	}
}

func TestSearchClampsPage(t *testing.T) {
	repo := &stubJobRepository{}
	svc := newService(repo)

	// A huge page must not overflow the (page-1)*limit offset into a
	// negative value downstream.
	if _, err := svc.Search(context.Background(), domain.JobFilter{Page: math.MaxInt}); err != nil {
		t.Fatalf("search: %v", err)
	}
	got := repo.lastFilter
	if got.Page != maxSearchPage {
		t.Fatalf("page not clamped: %d", got.Page)
	}
	if offset := (got.Page - 1) * got.Limit; offset < 0 {
		t.Fatalf("offset overflowed: %d", offset)
	}
}

func TestRecommendSkipsLookupWithoutSkills(t *testing.T) {
	repo := &stubJobRepository{}
	svc := newService(repo)

	jobs, err := svc.Recommend(context.Background(), []string{"  ", ""})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected empty result, got %d", len(jobs))
	}
	if repo.lastSkills != nil {
		t.Fatalf("repository should not be queried, got %v", repo.lastSkills)
	}

	if _, err := svc.Recommend(context.Background(), []string{"Go", " SQL "}); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if want := []string{"Go", "SQL"}; !reflect.DeepEqual(repo.lastSkills, want) {
		t.Fatalf("skills = %v, want %v", repo.lastSkills, want)
	}
	if repo.lastLimit != 5 {
		t.Fatalf("limit = %d, want 5", repo.lastLimit)
	}
}

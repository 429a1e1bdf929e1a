package ui

import (
	"testing"
	"time"

	"github.com/ratan2401/JobSphere/internal/domain"
)

func signedInController() *Controller {
	c := NewController()
	c.SignIn("token-1", domain.User{ID: "u1", Username: "ada"})
	return c
}

func TestStartsHomeSignedOut(t *testing.T) {
	c := NewController()
	if c.Screen().Kind != ScreenHome {
		t.Fatalf("expected home screen, got %s", c.Screen().Kind)
	}
	if c.Session().SignedIn() {
		t.Fatal("expected signed-out session")
	}
}

func TestGuardedScreensRequireSession(t *testing.T) {
	c := NewController()
	job := domain.Job{ID: "j1", Title: "Go Engineer"}

	if c.OpenPostJob() {
		t.Fatal("post-job should be refused while signed out")
	}
	if c.OpenApply(job) {
		t.Fatal("apply should be refused while signed out")
	}
	if c.OpenProfile() {
		t.Fatal("profile should be refused while signed out")
	}
	if c.Screen().Kind != ScreenHome {
		t.Fatalf("refused transition must not move screens, got %s", c.Screen().Kind)
	}
	if c.Notice() == "" {
		t.Fatal("refused transition should raise a notice")
	}

	c.SignIn("token-1", domain.User{ID: "u1", Username: "ada"})
	if !c.OpenPostJob() {
		t.Fatal("post-job should open when signed in")
	}
	if c.Screen().Kind != ScreenPostJob {
		t.Fatalf("expected post-job screen, got %s", c.Screen().Kind)
	}
}

func TestNoticeExpires(t *testing.T) {
	c := NewController()
	base := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	c.OpenPostJob()
	if c.Notice() == "" {
		t.Fatal("expected active notice")
	}

	c.now = func() time.Time { return base.Add(noticeTTL + time.Second) }
	if got := c.Notice(); got != "" {
		t.Fatalf("expected expired notice, got %q", got)
	}
}

func TestBackFromApplyRestoresResults(t *testing.T) {
	c := signedInController()
	jobs := []domain.Job{{ID: "j1"}, {ID: "j2"}}
	query := SearchQuery{Skill: "go", Page: 2}
	c.ShowResults(query, jobs)

	if !c.OpenApply(jobs[0]) {
		t.Fatal("apply should open when signed in")
	}
	c.Back()

	screen := c.Screen()
	if screen.Kind != ScreenJobResults {
		t.Fatalf("expected results screen after back, got %s", screen.Kind)
	}
	if screen.Query != query || len(screen.Jobs) != 2 {
		t.Fatalf("expected restored results context, got %+v", screen)
	}
}

func TestBackFromOtherScreensGoesHome(t *testing.T) {
	c := signedInController()
	c.OpenProfile()
	c.Back()
	if c.Screen().Kind != ScreenHome {
		t.Fatalf("expected home after back from profile, got %s", c.Screen().Kind)
	}

	c.OpenPostJob()
	c.Back()
	if c.Screen().Kind != ScreenHome {
		t.Fatalf("expected home after back from post-job, got %s", c.Screen().Kind)
	}
}

func TestSignOutClearsSessionAndResults(t *testing.T) {
	c := signedInController()
	c.ShowResults(SearchQuery{Skill: "go"}, []domain.Job{{ID: "j1"}})
	c.SignOut()

	if c.Session().SignedIn() {
		t.Fatal("expected signed-out session")
	}
	if c.Screen().Kind != ScreenHome {
		t.Fatalf("expected home screen, got %s", c.Screen().Kind)
	}

	// The cached results context must not leak across sessions.
	c.SignIn("token-2", domain.User{ID: "u2", Username: "bob"})
	c.OpenApply(domain.Job{ID: "j9"})
	c.Back()
	if c.Screen().Kind != ScreenHome {
		t.Fatalf("expected home when no results context exists, got %s", c.Screen().Kind)
	}
}

func TestUpdateUserOnlyWhenSignedIn(t *testing.T) {
	c := NewController()
	c.UpdateUser(domain.User{ID: "ghost"})
	if c.Session().User.ID != "" {
		t.Fatal("update must not apply without a session")
	}

	c.SignIn("token-1", domain.User{ID: "u1", Phone: ""})
	c.UpdateUser(domain.User{ID: "u1", Phone: "555"})
	if c.Session().User.Phone != "555" {
		t.Fatalf("expected refreshed profile, got %+v", c.Session().User)
	}
}

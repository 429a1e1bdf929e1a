// Package ui holds the view state machine for interactive front ends. The
// controller tracks which screen is visible, the signed-in session, and
// short-lived notices; it performs no network or storage access itself, so a
// front end drives it with data it fetched elsewhere.
package ui

import (
	"strings"
	"time"

	"github.com/ratan2401/JobSphere/internal/domain"
)

// ScreenKind identifies a visible screen.
type ScreenKind int

const (
	ScreenHome ScreenKind = iota
	ScreenProfile
	ScreenJobResults
	ScreenApply
	ScreenPostJob
)

// String returns the screen name for logs and prompts.
func (k ScreenKind) String() string {
	switch k {
	case ScreenHome:
		return "home"
	case ScreenProfile:
		return "profile"
	case ScreenJobResults:
		return "job-results"
	case ScreenApply:
		return "apply"
	case ScreenPostJob:
		return "post-job"
	default:
		return "unknown"
	}
}

// SearchQuery is the search context a results screen was produced from, kept
// so navigating back restores the same results.
type SearchQuery struct {
	Skill    string
	Location string
	Page     int
}

// Screen is the current view with its context. Jobs is populated on the
// results screen; Job on the apply screen.
type Screen struct {
	Kind  ScreenKind
	Query SearchQuery
	Jobs  []domain.Job
	Job   *domain.Job
}

// Session is the single source of truth for authentication state. A session
// is signed in exactly when Token is non-empty.
type Session struct {
	Token string
	User  domain.User
}

// SignedIn reports whether a user is authenticated.
func (s Session) SignedIn() bool {
	return strings.TrimSpace(s.Token) != ""
}

const noticeTTL = 5 * time.Second

// Controller is the navigation state machine. It is not safe for concurrent
// use; interactive front ends are single-threaded.
type Controller struct {
	screen  Screen
	results Screen
	session Session

	notice        string
	noticeExpires time.Time
	now           func() time.Time
}

// NewController starts on the home screen, signed out.
func NewController() *Controller {
	return &Controller{
		screen: Screen{Kind: ScreenHome},
		now:    time.Now,
	}
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen {
	return c.screen
}

// Session returns the current session.
func (c *Controller) Session() Session {
	return c.session
}

// Notice returns the active transient notice, or empty once it has expired.
func (c *Controller) Notice() string {
	if c.notice == "" || c.now().After(c.noticeExpires) {
		return ""
	}
	return c.notice
}

func (c *Controller) raiseNotice(msg string) {
	c.notice = msg
	c.noticeExpires = c.now().Add(noticeTTL)
}

// SignIn records the authenticated session and shows the home screen.
func (c *Controller) SignIn(token string, user domain.User) {
	c.session = Session{Token: token, User: user}
	c.screen = Screen{Kind: ScreenHome}
	c.raiseNotice("signed in as " + user.Username)
}

// SignOut discards the session locally. Tokens are stateless so there is
// nothing to revoke server-side; they lapse at expiry.
func (c *Controller) SignOut() {
	c.session = Session{}
	c.screen = Screen{Kind: ScreenHome}
	c.results = Screen{}
	c.raiseNotice("signed out")
}

// UpdateUser refreshes the cached profile after a server-side change.
func (c *Controller) UpdateUser(user domain.User) {
	if c.session.SignedIn() {
		c.session.User = user
	}
}

// ShowResults displays a results screen for the given query.
func (c *Controller) ShowResults(query SearchQuery, jobs []domain.Job) {
	c.screen = Screen{Kind: ScreenJobResults, Query: query, Jobs: jobs}
	c.results = c.screen
}

// OpenProfile shows the profile screen. Requires a session.
func (c *Controller) OpenProfile() bool {
	if !c.session.SignedIn() {
		c.raiseNotice("sign in to view your profile")
		return false
	}
	c.screen = Screen{Kind: ScreenProfile}
	return true
}

// OpenPostJob shows the posting form. Requires a session; when signed out the
// current screen is kept and a notice is raised instead.
func (c *Controller) OpenPostJob() bool {
	if !c.session.SignedIn() {
		c.raiseNotice("sign in to post a job")
		return false
	}
	c.screen = Screen{Kind: ScreenPostJob}
	return true
}

// OpenApply shows the application form for a job. Requires a session; when
// signed out the current screen is kept and a notice is raised instead.
func (c *Controller) OpenApply(job domain.Job) bool {
	if !c.session.SignedIn() {
		c.raiseNotice("sign in to apply for jobs")
		return false
	}
	c.screen = Screen{Kind: ScreenApply, Job: &job}
	return true
}

// Back navigates to the fixed parent screen: apply returns to the results it
// was opened from, everything else returns home.
func (c *Controller) Back() {
	if c.screen.Kind == ScreenApply && c.results.Kind == ScreenJobResults {
		c.screen = c.results
		return
	}
	c.screen = Screen{Kind: ScreenHome}
}

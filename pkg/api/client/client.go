package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ratan2401/JobSphere/internal/domain"
)

// Client provides typed access to the JobSphere API for interactive tools.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:4000"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg := extractError(resp.Body)
		return APIError{Status: resp.StatusCode, Message: msg}
	}

	if v == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	if body == nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Error)
}

// RegisterInput captures the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", input, "", nil)
}

// LoginResponse captures the token payload emitted by the API.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, "", &resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, token, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ProfileUpdate carries partial profile fields. Nil pointers leave the field
// unchanged on the server.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	College *string `json:"college,omitempty"`
	Company *string `json:"company,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// UpdateProfile applies a partial profile update and returns the result.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPut, "/api/auth/me", update, token, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CreateJobInput captures the payload for posting a job.
type CreateJobInput struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
	Education   string   `json:"education"`
	Salary      *float64 `json:"salary,omitempty"`
	Description string   `json:"description"`
}

// CreateJob posts a new job listing.
func (c *Client) CreateJob(ctx context.Context, token string, input CreateJobInput) (domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", input, token, &job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// SearchFilter selects jobs for a search request.
type SearchFilter struct {
	Skill    string
	Location string
	Page     int
	Limit    int
}

// SearchJobs queries job listings. All filter fields are optional.
func (c *Client) SearchJobs(ctx context.Context, filter SearchFilter) ([]domain.Job, error) {
	query := url.Values{}
	if strings.TrimSpace(filter.Skill) != "" {
		query.Set("skill", filter.Skill)
	}
	if strings.TrimSpace(filter.Location) != "" {
		query.Set("location", filter.Location)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/api/jobs"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, path, nil, "", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// RecommendedJobs returns jobs sharing at least one of the given skills.
func (c *Client) RecommendedJobs(ctx context.Context, token string, skills []string) ([]domain.Job, error) {
	path := "/api/jobs/recommended?skills=" + url.QueryEscape(strings.Join(skills, ","))
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, path, nil, token, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ApplicationInput captures the payload for submitting an application.
type ApplicationInput struct {
	JobID   string `json:"jobId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	College string `json:"college,omitempty"`
	Skills  string `json:"skills,omitempty"`
	Resume  string `json:"resume,omitempty"`
}

// SubmitApplication applies to a job on behalf of the authenticated user.
func (c *Client) SubmitApplication(ctx context.Context, token string, input ApplicationInput) (domain.Application, error) {
	var resp struct {
		Message     string             `json:"message"`
		Application domain.Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/applications", input, token, &resp); err != nil {
		return domain.Application{}, err
	}
	return resp.Application, nil
}

// ListApplicationsByJob returns applications submitted against a job.
func (c *Client) ListApplicationsByJob(ctx context.Context, token, jobID string) ([]domain.Application, error) {
	path := "/api/applications/job/" + url.PathEscape(jobID)
	var apps []domain.Application
	if err := c.do(ctx, http.MethodGet, path, nil, token, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

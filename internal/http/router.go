package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ratan2401/JobSphere/internal/domain"
	"github.com/ratan2401/JobSphere/internal/repository"
	"github.com/ratan2401/JobSphere/internal/service/application"
	"github.com/ratan2401/JobSphere/internal/service/auth"
	"github.com/ratan2401/JobSphere/internal/service/job"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	auth         auth.Service
	jobs         job.Service
	applications application.Service
	dbHealth     func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	applicationResults *prometheus.CounterVec
}

const healthCheckTimeout = 2 * time.Second

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, jobSvc job.Service, applicationSvc application.Service, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:          http.NewServeMux(),
		logger:       logger,
		auth:         authSvc,
		jobs:         jobSvc,
		applications: applicationSvc,
		dbHealth:     dbHealth,
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)
	r.mux.HandleFunc("/healthz", r.audit(r.instrument("/healthz", r.handleHealthz)))
	r.mux.HandleFunc("/api/auth/register", r.audit(r.instrument("/api/auth/register", r.handleRegister)))
	r.mux.HandleFunc("/api/auth/login", r.audit(r.instrument("/api/auth/login", r.handleLogin)))
	r.mux.HandleFunc("/api/auth/me", r.audit(r.instrument("/api/auth/me", r.requireAuth(r.handleMe))))
	r.mux.HandleFunc("/api/jobs", r.audit(r.instrument("/api/jobs", r.handleJobs)))
	r.mux.HandleFunc("/api/jobs/recommended", r.audit(r.instrument("/api/jobs/recommended", r.requireAuth(r.handleRecommendedJobs))))
	r.mux.HandleFunc("/api/applications", r.audit(r.instrument("/api/applications", r.requireAuth(r.handleApplications))))
	r.mux.HandleFunc("/api/applications/job/", r.audit(r.instrument("/api/applications/job/:jobId", r.requireAuth(r.handleApplicationsByJob))))
}

// respondError maps domain errors to their fixed HTTP statuses. Anything
// unmapped is reported as a generic 500 so storage internals never leak.
func (r *Router) respondError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, job.ErrMissingTitle),
		errors.Is(err, job.ErrMissingCompany),
		errors.Is(err, application.ErrMissingFields),
		errors.Is(err, application.ErrAlreadyApplied):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrJobNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		r.logger.Error("request failed", "error", err, "method", req.Method, "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondProfileError names the user on profile routes, where a missing row
// can only be the authenticated account.
func (r *Router) respondProfileError(w http.ResponseWriter, req *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	r.respondError(w, req, err)
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := r.auth.Register(req.Context(), auth.RegisterInput{
		Name:     payload.Name,
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}); err != nil {
		r.respondError(w, req, err)
		return
	}
	writeMessage(w, http.StatusCreated, "user registered successfully")
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		r.respondError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	userID, ok := userIDFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for profile route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodGet:
		user, err := r.auth.Profile(req.Context(), userID)
		if err != nil {
			r.respondProfileError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodPut:
		var payload struct {
			Name    *string `json:"name"`
			College *string `json:"college"`
			Company *string `json:"company"`
			Phone   *string `json:"phone"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		user, err := r.auth.UpdateProfile(req.Context(), userID, domain.ProfilePatch{
			Name:    payload.Name,
			College: payload.College,
			Company: payload.Company,
			Phone:   payload.Phone,
		})
		if err != nil {
			r.respondProfileError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	default:
		r.methodNotAllowed(w)
	}
}

// jobPayload accepts skills as either a JSON array or a single delimited
// string; the delimited form is split before it reaches the service.
type jobPayload struct {
	Title       string          `json:"title"`
	Company     string          `json:"company"`
	Location    string          `json:"location"`
	Skills      json.RawMessage `json:"skills"`
	Experience  string          `json:"experience"`
	Education   string          `json:"education"`
	Salary      *float64        `json:"salary"`
	Description string          `json:"description"`
}

func (p jobPayload) skillList() []string {
	if len(p.Skills) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(p.Skills, &list); err == nil {
		return list
	}
	var raw string
	if err := json.Unmarshal(p.Skills, &raw); err == nil {
		return strings.Split(raw, ",")
	}
	return nil
}

func (r *Router) handleJobs(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		ctx, userID, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		req = req.WithContext(ctx)
		var payload jobPayload
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := r.jobs.Create(req.Context(), userID, job.CreateInput{
			Title:       payload.Title,
			Company:     payload.Company,
			Location:    payload.Location,
			Skills:      payload.skillList(),
			Experience:  payload.Experience,
			Education:   payload.Education,
			Salary:      payload.Salary,
			Description: payload.Description,
		})
		if err != nil {
			r.respondError(w, req, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		query := req.URL.Query()
		page, _ := strconv.Atoi(query.Get("page"))
		limit, _ := strconv.Atoi(query.Get("limit"))
		jobs, err := r.jobs.Search(req.Context(), domain.JobFilter{
			Query:    query.Get("skill"),
			Location: query.Get("location"),
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			r.respondError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleRecommendedJobs(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	skills := strings.Split(req.URL.Query().Get("skills"), ",")
	jobs, err := r.jobs.Recommend(req.Context(), skills)
	if err != nil {
		r.respondError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (r *Router) handleApplications(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	userID, ok := userIDFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for application route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	var payload struct {
		JobID   string `json:"jobId"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Mobile  string `json:"mobile"`
		College string `json:"college"`
		Skills  string `json:"skills"`
		Resume  string `json:"resume"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	submitted, err := r.applications.Submit(req.Context(), application.SubmitInput{
		JobID:       payload.JobID,
		ApplicantID: userID,
		Name:        payload.Name,
		Email:       payload.Email,
		Mobile:      payload.Mobile,
		College:     payload.College,
		Skills:      payload.Skills,
		Resume:      payload.Resume,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAlreadyApplied):
			r.recordApplicationResult("duplicate")
		case errors.Is(err, application.ErrMissingFields):
			r.recordApplicationResult("invalid")
		case errors.Is(err, application.ErrJobNotFound):
			r.recordApplicationResult("job_missing")
		}
		r.respondError(w, req, err)
		return
	}
	r.recordApplicationResult("accepted")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "application submitted successfully",
		"application": submitted,
	})
}

func (r *Router) handleApplicationsByJob(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	jobID := strings.TrimPrefix(req.URL.Path, "/api/applications/job/")
	if jobID == "" || strings.Contains(jobID, "/") {
		r.notFound(w)
		return
	}
	applications, err := r.applications.ListByJob(req.Context(), jobID)
	if err != nil {
		r.respondError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if userID, ok := userIDFromContext(ctx); ok {
			actor = "user"
			fields = append(fields, "user_id", userID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// SetContext records the enriched request context. Recorders nest when
// middleware stacks, so the context is propagated to the wrapped writer too.
func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
	if setter, ok := sr.ResponseWriter.(contextSetter); ok {
		setter.SetContext(ctx)
	}
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}

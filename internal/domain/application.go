package domain

import "time"

// Application records one candidate applying to one job. At most one
// application may exist per (JobID, Email) pair. Resume holds a filename
// reference only; no file content is stored.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	ApplicantID string    `json:"applicant_id,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	College     string    `json:"college,omitempty"`
	Skills      string    `json:"skills,omitempty"`
	Resume      string    `json:"resume,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

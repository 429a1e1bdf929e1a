package domain

import "time"

// Job is a posting created by an authenticated user. Postings are immutable
// once created; PostedBy references the owning user.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Skills      []string  `json:"skills"`
	Experience  string    `json:"experience"`
	Education   string    `json:"education"`
	Salary      *float64  `json:"salary,omitempty"`
	Description string    `json:"description"`
	PostedBy    string    `json:"posted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobFilter selects jobs for a search. Query matches as a case-insensitive
// substring of title, company, or any skill; Location matches as a
// case-insensitive substring of the job location. Both conditions combine
// with AND when present.
type JobFilter struct {
	Query    string
	Location string
	Page     int
	Limit    int
}

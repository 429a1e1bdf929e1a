package domain

import "time"

// User represents a registered account. Email and username are immutable
// identity fields and globally unique.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	College      string    `json:"college"`
	Company      string    `json:"company"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfilePatch carries a partial profile update. Nil pointers mean the field
// was omitted and keeps its prior value; a non-nil empty string clears the
// field. Name is only applied when non-empty.
type ProfilePatch struct {
	Name    *string
	College *string
	Company *string
	Phone   *string
}

package users

import (
	"time"

	"github.com/google/uuid"
)

// Plans. Pro accounts are not metered by the local quota.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

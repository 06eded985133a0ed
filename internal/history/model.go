package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one saved translation belonging to an account. Guest activity is
// not persisted here; only authenticated users accumulate history.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Mode        string    `json:"mode"`
	Original    string    `json:"original"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"created_at"`
}

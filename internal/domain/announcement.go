package domain

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a broadcast message authored by an administrator.
// Announcement management happens elsewhere; the engine only carries the id
// as a subject reference when dispatching announcement notifications.
type Announcement struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
)

// CaseStore defines the interface for case persistence as seen by the
// notification engine. Interactive case CRUD lives behind its own surface;
// the engine only needs to load candidate cases and write back the embedded
// task array.
type CaseStore interface {
	// GetByID retrieves a case by its unique ID.
	// Returns ErrCaseNotFound if the case does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)

	// FindCasesWithOutstandingNotifications returns every case that is not
	// closed, as sweep candidates. The per-task trigger predicates are
	// evaluated by the caller.
	FindCasesWithOutstandingNotifications(ctx context.Context) ([]*domain.Case, error)

	// UpdateTasks atomically replaces the case's embedded task array in a
	// single-row write, leaving all other case fields untouched.
	// Returns ErrCaseNotFound if the case does not exist.
	UpdateTasks(ctx context.Context, caseID uuid.UUID, tasks []domain.Task) error
}

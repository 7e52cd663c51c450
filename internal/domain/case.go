package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents whether a case is still being worked on.
type CaseStatus string

// Possible case status values.
const (
	CaseStatusActive CaseStatus = "Active"
	CaseStatusClosed CaseStatus = "Closed"
)

// Case-specific validation errors.
var (
	// ErrCaseIDEmpty is returned when a case ID is empty or nil.
	ErrCaseIDEmpty = errors.New("case ID cannot be empty")

	// ErrCaseMatterNameEmpty is returned when a case's matter name is empty.
	ErrCaseMatterNameEmpty = errors.New("case matter name cannot be empty")

	// ErrCaseFileReferenceEmpty is returned when a case's file reference is empty.
	ErrCaseFileReferenceEmpty = errors.New("case file reference cannot be empty")
)

// Case is the aggregate root owning an ordered collection of tasks plus the
// two staff identities in charge of the matter. The task slice is embedded in
// the case row (a JSONB column), so a save of the case rewrites all tasks in
// one atomic write. Callers that only change task fields should persist
// through the tasks-only update to avoid clobbering unrelated case fields.
type Case struct {
	ID                uuid.UUID  `json:"id"`
	MatterName        string     `json:"matter_name"`
	FileReference     string     `json:"file_reference"`
	SolicitorInCharge uuid.UUID  `json:"solicitor_in_charge"`
	ClerkInCharge     uuid.UUID  `json:"clerk_in_charge"`
	Status            CaseStatus `json:"status"`
	Tasks             []Task     `json:"tasks"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Validate checks if the Case has valid data, including every embedded task.
func (c *Case) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCaseIDEmpty
	}

	if c.MatterName == "" {
		return ErrCaseMatterNameEmpty
	}

	if c.FileReference == "" {
		return ErrCaseFileReferenceEmpty
	}

	if c.Status != CaseStatusActive && c.Status != CaseStatusClosed {
		return ErrInvalidCaseStatus
	}

	for i := range c.Tasks {
		if err := c.Tasks[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Staff returns the solicitor and clerk in charge, dropping unset identities.
func (c *Case) Staff() []uuid.UUID {
	staff := make([]uuid.UUID, 0, 2)
	if c.SolicitorInCharge != uuid.Nil {
		staff = append(staff, c.SolicitorInCharge)
	}
	if c.ClerkInCharge != uuid.Nil {
		staff = append(staff, c.ClerkInCharge)
	}
	return staff
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parkhurst/casetrack-api/internal/domain"
	"github.com/parkhurst/casetrack-api/internal/store"
)

// PostgresCaseStore implements the store.CaseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCaseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCaseStore creates a new PostgreSQL implementation of the
// CaseStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCaseStore(db store.DBTX, logger *slog.Logger) *PostgresCaseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCaseStore{
		db:     db,
		logger: logger.With(slog.String("component", "case_store")),
	}
}

// Ensure PostgresCaseStore implements store.CaseStore interface
var _ store.CaseStore = (*PostgresCaseStore)(nil)

// GetByID implements store.CaseStore.GetByID
// It retrieves a case by its unique ID, unmarshalling the embedded task
// array from the tasks JSONB column.
// Returns store.ErrCaseNotFound if the case does not exist.
func (s *PostgresCaseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	query := `
		SELECT id, matter_name, file_reference, solicitor_in_charge,
		       clerk_in_charge, status, tasks, created_at, updated_at
		FROM cases
		WHERE id = $1
	`

	c, err := scanCase(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCaseNotFound
		}
		s.logger.Error("failed to get case by ID",
			slog.String("error", err.Error()),
			slog.String("case_id", id.String()))
		return nil, MapError(err)
	}

	return c, nil
}

// FindCasesWithOutstandingNotifications implements
// store.CaseStore.FindCasesWithOutstandingNotifications
// It returns all cases that are not closed. The sweep evaluates the per-task
// trigger predicates itself; filtering here only trims the candidate set.
func (s *PostgresCaseStore) FindCasesWithOutstandingNotifications(
	ctx context.Context,
) ([]*domain.Case, error) {
	query := `
		SELECT id, matter_name, file_reference, solicitor_in_charge,
		       clerk_in_charge, status, tasks, created_at, updated_at
		FROM cases
		WHERE status <> $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, domain.CaseStatusClosed)
	if err != nil {
		s.logger.Error("failed to query open cases", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cases []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			s.logger.Error("failed to scan case row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cases = append(cases, c)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cases, nil
}

// UpdateTasks implements store.CaseStore.UpdateTasks
// It rewrites only the tasks JSONB column of the case row in one atomic
// single-row update, so concurrent edits to other case fields are never
// clobbered by the sweep.
// Returns store.ErrCaseNotFound if the case does not exist.
func (s *PostgresCaseStore) UpdateTasks(
	ctx context.Context,
	caseID uuid.UUID,
	tasks []domain.Task,
) error {
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	encoded, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("%w: failed to encode tasks: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cases
		SET tasks = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, caseID, encoded)
	if err != nil {
		s.logger.Error("failed to update case tasks",
			slog.String("error", err.Error()),
			slog.String("case_id", caseID.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrCaseNotFound
	}

	s.logger.Debug("case tasks updated",
		slog.String("case_id", caseID.String()),
		slog.Int("task_count", len(tasks)))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	var tasksJSON []byte

	err := row.Scan(
		&c.ID,
		&c.MatterName,
		&c.FileReference,
		&c.SolicitorInCharge,
		&c.ClerkInCharge,
		&c.Status,
		&tasksJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tasksJSON) > 0 {
		if err := json.Unmarshal(tasksJSON, &c.Tasks); err != nil {
			return nil, fmt.Errorf("failed to decode tasks for case %s: %w", c.ID, err)
		}
	}

	return &c, nil
}

package repository

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
	"github.com/pkg/errors"
)

// ActionRepository persists workflow action records. Decided rows are
// never updated again: the only write paths are Save for new PENDING rows
// and the transactional claim-and-finalize pair used by the engine.
type ActionRepository struct {
	db    *sql.DB
	clock core.Clock
}

const actionColumns = ` id, action_type, status, payload, maker_id, checker_id,
		       review_comment, execution_result, created_at, reviewed_at `

func NewActionRepository(db *sql.DB, clock core.Clock) *ActionRepository {
	return &ActionRepository{db: db, clock: clock}
}

// Transition carries the fields written when a checker claims an action.
type Transition struct {
	Status        string
	CheckerID     string
	ReviewComment string
	ReviewedAt    time.Time
}

// Save inserts a new PENDING action row.
func (r *ActionRepository) Save(a *domain.WorkflowAction) error {
	vals := []interface{}{
		a.ID,
		a.ActionType,
		a.Status,
		a.Payload,
		a.MakerID,
		formatDateInDatabase(a.CreatedAt),
	}
	pps := make([]string, 0, len(vals))
	for i := range vals {
		pps = append(pps, placeholder(i+1))
	}
	query := `INSERT INTO workflow_actions (
		id, action_type, status, payload, maker_id, created_at
	) VALUES (` + strings.Join(pps, ", ") + `)`
	if _, err := r.db.Exec(query, vals...); err != nil {
		slog.Error("Failed to save workflow action", "error", err, "id", a.ID)
		return errors.Wrap(err, "insert workflow action")
	}
	return nil
}

// FindByID fetches a single action. Returns (nil, nil) if not found.
func (r *ActionRepository) FindByID(id string) (*domain.WorkflowAction, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM workflow_actions WHERE id = ` + placeholder(1) + `
	`
	var a domain.WorkflowAction
	err := r.db.QueryRow(query, id).Scan(
		&a.ID,
		&a.ActionType,
		&a.Status,
		&a.Payload,
		&a.MakerID,
		&a.CheckerID,
		&a.ReviewComment,
		&a.ExecutionResult,
		&a.CreatedAt,
		&a.ReviewedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find workflow action")
	}
	return &a, nil
}

// ClaimTransition is the atomic claim of the two-person rule: the update
// only matches while the row still holds expectedStatus, so exactly one
// concurrent decision can win. Runs on the caller's transaction so an
// approval that later fails execution rolls the claim back too.
func (r *ActionRepository) ClaimTransition(tx *sql.Tx, id string, expectedStatus string, t Transition) (bool, error) {
	query := `
		UPDATE workflow_actions
		SET status = ` + placeholder(1) + `,
		    checker_id = ` + placeholder(2) + `,
		    review_comment = ` + placeholder(3) + `,
		    reviewed_at = ` + placeholder(4) + `
		WHERE id = ` + placeholder(5) + ` AND status = ` + placeholder(6) + `
	`
	comment := sql.NullString{String: t.ReviewComment, Valid: t.ReviewComment != ""}
	result, err := tx.Exec(query, t.Status, t.CheckerID, comment, formatDateInDatabase(t.ReviewedAt), id, expectedStatus)
	if err != nil {
		return false, errors.Wrap(err, "claim transition")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "claim transition rows affected")
	}
	return rowsAffected == 1, nil
}

// SetExecutionResult records the handler's summary on an approved row,
// within the same transaction as the claim.
func (r *ActionRepository) SetExecutionResult(tx *sql.Tx, id string, result string) error {
	query := `
		UPDATE workflow_actions
		SET execution_result = ` + placeholder(1) + `
		WHERE id = ` + placeholder(2) + `
	`
	_, err := tx.Exec(query, result, id)
	return errors.Wrap(err, "set execution result")
}

// Search returns one page of actions, newest first, plus the unpaged total.
func (r *ActionRepository) Search(req models.SearchActionsRequest) (*[]domain.WorkflowAction, int, error) {
	req.Normalize()

	var conds []string
	var args []interface{}
	idx := 1
	if req.Status != "" {
		conds = append(conds, "status = "+placeholder(idx))
		args = append(args, req.Status)
		idx++
	}
	if req.ActionType != "" {
		conds = append(conds, "action_type = "+placeholder(idx))
		args = append(args, req.ActionType)
		idx++
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM workflow_actions` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count workflow actions")
	}

	query := `
		SELECT ` + actionColumns + `
		FROM workflow_actions` + where + `
		ORDER BY created_at DESC
		LIMIT ` + placeholder(idx) + ` OFFSET ` + placeholder(idx+1) + `
	`
	args = append(args, req.PageSize, (req.Page-1)*req.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "search workflow actions")
	}
	defer rows.Close()

	var actions []domain.WorkflowAction
	for rows.Next() {
		var a domain.WorkflowAction
		if err := rows.Scan(
			&a.ID,
			&a.ActionType,
			&a.Status,
			&a.Payload,
			&a.MakerID,
			&a.CheckerID,
			&a.ReviewComment,
			&a.ExecutionResult,
			&a.CreatedAt,
			&a.ReviewedAt,
		); err != nil {
			return nil, 0, errors.Wrap(err, "scan workflow action")
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "iterate workflow actions")
	}
	return &actions, total, nil
}

package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ActionManager is the maker-checker engine. A maker submits an action,
// which is validated by its handler and stored PENDING; a different
// checker later decides it. The decision claims the row with a
// conditional update and, for approvals, runs the handler inside the
// same transaction, so a failed execution rolls the claim back and the
// action stays PENDING.
type ActionManager struct {
	db       *sql.DB
	registry *Registry
	actions  ActionRepo
	clock    core.Clock
}

func NewActionManager(db *sql.DB, registry *Registry, actions ActionRepo, clock core.Clock) *ActionManager {
	return &ActionManager{
		db:       db,
		registry: registry,
		actions:  actions,
		clock:    clock,
	}
}

// Submit validates the payload through the type's handler and persists a
// new PENDING action. No side effect runs here.
func (m *ActionManager) Submit(ctx context.Context, req models.SubmitActionRequest) (*domain.WorkflowAction, error) {
	handler, err := m.registry.Resolve(req.ActionType)
	if err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.MakerID) == "" {
		fields["makerId"] = "required"
	}
	if len(req.Payload) == 0 {
		fields["payload"] = "required"
	}
	if len(fields) > 0 {
		return nil, core.NewValidationError("submission is incomplete", fields)
	}
	if err := handler.Validate(req.Payload); err != nil {
		return nil, err
	}

	action := &domain.WorkflowAction{
		ID:         uuid.NewString(),
		ActionType: req.ActionType,
		Status:     domain.StatusPending,
		Payload:    string(req.Payload),
		MakerID:    req.MakerID,
		CreatedAt:  m.clock.Now().UTC(),
	}
	if err := m.actions.Save(action); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Action submitted", "id", action.ID, "type", action.ActionType, "maker", action.MakerID)
	return action, nil
}

// Get fetches one action by id.
func (m *ActionManager) Get(id string) (*domain.WorkflowAction, error) {
	action, err := m.actions.FindByID(id)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, core.NewNotFoundError(id)
	}
	return action, nil
}

// Search returns one page of actions, newest first.
func (m *ActionManager) Search(req models.SearchActionsRequest) (models.SearchActionsResponse, error) {
	req.Normalize()
	actions, total, err := m.actions.Search(req)
	if err != nil {
		return models.SearchActionsResponse{}, err
	}
	items := make([]models.ActionApiResponse, 0, len(*actions))
	for i := range *actions {
		items = append(items, models.MapActionToApiResponse(&(*actions)[i]))
	}
	totalPages := (total + req.PageSize - 1) / req.PageSize
	return models.SearchActionsResponse{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ActionTypes exposes discovery metadata for registered handlers.
func (m *ActionManager) ActionTypes() []core.ActionMeta {
	return m.registry.Types()
}

// Decide applies a checker's decision to a pending action.
//
// The policy checks run against a plain read first so callers get
// precise errors, but correctness does not depend on that read: the
// status transition is claimed with a conditional update inside a
// transaction, and for approvals the handler executes on the same
// transaction before commit. Losing racers see zero claimed rows. A
// handler failure rolls everything back, leaving the action PENDING and
// re-decidable.
func (m *ActionManager) Decide(ctx context.Context, req models.DecisionRequest) (*domain.WorkflowAction, error) {
	action, err := m.actions.FindByID(req.ActionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, core.NewNotFoundError(req.ActionID)
	}
	if action.Terminal() {
		return nil, core.NewAlreadyDecidedError(action.ID, action.Status)
	}
	if strings.TrimSpace(req.CheckerID) == "" {
		return nil, core.NewValidationError("decision is incomplete", map[string]string{"checkerId": "required"})
	}
	if req.CheckerID == action.MakerID {
		return nil, core.NewSelfReviewError(req.CheckerID)
	}

	var newStatus string
	switch req.Decision {
	case domain.DecisionApprove:
		newStatus = domain.StatusApproved
	case domain.DecisionReject:
		if strings.TrimSpace(req.Comment) == "" {
			return nil, core.NewValidationError("a comment is required when rejecting", map[string]string{"comment": "required"})
		}
		newStatus = domain.StatusRejected
	default:
		return nil, core.NewValidationError("decision must be APPROVE or REJECT", map[string]string{"decision": "invalid"})
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "begin decision transaction")
	}
	defer tx.Rollback()

	claimed, err := m.actions.ClaimTransition(tx, action.ID, domain.StatusPending, repository.Transition{
		Status:        newStatus,
		CheckerID:     req.CheckerID,
		ReviewComment: req.Comment,
		ReviewedAt:    m.clock.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Someone else decided between our read and the update.
		return nil, core.NewAlreadyDecidedError(action.ID, "decided")
	}

	if newStatus == domain.StatusApproved {
		handler, err := m.registry.Resolve(action.ActionType)
		if err != nil {
			return nil, err
		}
		result, err := handler.Execute(tx, []byte(action.Payload))
		if err != nil {
			slog.WarnContext(ctx, "Handler execution failed, approval rolled back",
				"id", action.ID, "type", action.ActionType, "checker", req.CheckerID, "error", err)
			if core.KindOf(err) == "" {
				return nil, core.NewExecutionError("handler execution failed", err)
			}
			return nil, err
		}
		if len(result) > 0 {
			if err := m.actions.SetExecutionResult(tx, action.ID, string(result)); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit decision transaction")
	}
	slog.InfoContext(ctx, "Action decided", "id", action.ID, "type", action.ActionType,
		"decision", req.Decision, "checker", req.CheckerID)

	return m.Get(action.ID)
}

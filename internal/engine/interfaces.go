package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
)

// ActionRepo defines the persistence boundary the engine writes workflow
// actions through, matching repository.ActionRepository.
type ActionRepo interface {
	Save(a *domain.WorkflowAction) error
	FindByID(id string) (*domain.WorkflowAction, error)
	Search(req models.SearchActionsRequest) (*[]domain.WorkflowAction, int, error)
	ClaimTransition(tx *sql.Tx, id string, expectedStatus string, t repository.Transition) (bool, error)
	SetExecutionResult(tx *sql.Tx, id string, result string) error
}

// UserRepo defines the interface for user persistence as consumed by
// auth and the users API.
type UserRepo interface {
	FindBySessionID(sessionID string, now time.Time) (*domain.User, error)
	FindByApiKey(apiKey string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindAll() (*[]domain.User, error)
	Save(user *domain.User) (int64, error)
	UpdateSession(userID int64, sessionID string, expiry time.Time) error
	ClearSessionBySessionID(sessionID string) error
}

// ActionService is the engine surface consumed by the HTTP controllers.
type ActionService interface {
	Submit(ctx context.Context, req models.SubmitActionRequest) (*domain.WorkflowAction, error)
	Get(id string) (*domain.WorkflowAction, error)
	Search(req models.SearchActionsRequest) (models.SearchActionsResponse, error)
	Decide(ctx context.Context, req models.DecisionRequest) (*domain.WorkflowAction, error)
	ActionTypes() []core.ActionMeta
}

package handlers

import (
	"database/sql"
	"encoding/json"
	goerrors "errors"

	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
	"github.com/go-playground/validator/v10"
)

const TypeCreateUser = "create_user"

type createUserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	FullName string `json:"fullName" validate:"omitempty,max=128"`
}

// CreateUserHandler proposes a new back-office user. The created user
// starts disabled with no credentials; enabling it is an admin concern.
type CreateUserHandler struct {
	users    *repository.UserRepository
	validate *validator.Validate
}

func NewCreateUserHandler(users *repository.UserRepository) *CreateUserHandler {
	return &CreateUserHandler{users: users, validate: newValidator()}
}

func (h *CreateUserHandler) Meta() core.ActionMeta {
	return core.ActionMeta{
		Type:        TypeCreateUser,
		Name:        "Create user",
		Description: "Creates a back-office user; it stays disabled until credentials are issued",
		Category:    "users",
	}
}

func (h *CreateUserHandler) Validate(payload json.RawMessage) error {
	p, err := decodePayload[createUserPayload](payload)
	if err != nil {
		return err
	}
	return checkStruct(h.validate, p)
}

// Execute inserts the user; email and username uniqueness comes from the
// table constraints, so a concurrent duplicate surfaces here as an
// execution error rather than slipping past a stale pre-read.
func (h *CreateUserHandler) Execute(tx *sql.Tx, payload json.RawMessage) (json.RawMessage, error) {
	p, err := decodePayload[createUserPayload](payload)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username: p.Username,
		Email:    p.Email,
		FullName: sql.NullString{String: p.FullName, Valid: p.FullName != ""},
		Enabled:  false,
	}
	id, err := h.users.InsertTx(tx, u)
	if goerrors.Is(err, repository.ErrDuplicateKey) {
		return nil, core.NewExecutionError("email or username is already in use", err)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.CreatedUserResult{UserID: id, Username: p.Username, Email: p.Email})
}

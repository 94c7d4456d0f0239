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

const TypeCreateAccount = "create_account"

type createAccountPayload struct {
	AccountNumber  string `json:"accountNumber" validate:"required,min=6,max=34,alphanum"`
	OwnerUsername  string `json:"ownerUsername" validate:"required"`
	AccountType    string `json:"accountType" validate:"required,oneof=SAVINGS CURRENT LOAN"`
	Currency       string `json:"currency" validate:"required,len=3,alpha,uppercase"`
	OpeningBalance int64  `json:"openingBalance" validate:"gte=0"`
}

// CreateAccountHandler proposes a new account for an existing user.
type CreateAccountHandler struct {
	accounts *repository.AccountRepository
	users    *repository.UserRepository
	validate *validator.Validate
}

func NewCreateAccountHandler(accounts *repository.AccountRepository, users *repository.UserRepository) *CreateAccountHandler {
	return &CreateAccountHandler{accounts: accounts, users: users, validate: newValidator()}
}

func (h *CreateAccountHandler) Meta() core.ActionMeta {
	return core.ActionMeta{
		Type:        TypeCreateAccount,
		Name:        "Create account",
		Description: "Opens an account owned by an existing enabled user",
		Category:    "accounts",
	}
}

// Validate checks the schema and does a cheap referential read on the
// owner. The read is advisory only; Execute re-checks on the decision
// transaction.
func (h *CreateAccountHandler) Validate(payload json.RawMessage) error {
	p, err := decodePayload[createAccountPayload](payload)
	if err != nil {
		return err
	}
	if err := checkStruct(h.validate, p); err != nil {
		return err
	}
	exists, err := h.users.ExistsEnabled(p.OwnerUsername)
	if err != nil {
		return err
	}
	if !exists {
		return core.NewValidationError("owner does not exist", map[string]string{"ownerUsername": "unknown or disabled user"})
	}
	return nil
}

func (h *CreateAccountHandler) Execute(tx *sql.Tx, payload json.RawMessage) (json.RawMessage, error) {
	p, err := decodePayload[createAccountPayload](payload)
	if err != nil {
		return nil, err
	}
	exists, err := h.users.ExistsEnabledTx(tx, p.OwnerUsername)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, core.NewExecutionError("owner user no longer exists or is disabled", nil)
	}
	a := &domain.Account{
		AccountNumber:  p.AccountNumber,
		OwnerUsername:  p.OwnerUsername,
		AccountType:    p.AccountType,
		Currency:       p.Currency,
		OpeningBalance: p.OpeningBalance,
	}
	id, err := h.accounts.InsertTx(tx, a)
	if goerrors.Is(err, repository.ErrDuplicateKey) {
		return nil, core.NewExecutionError("account number is already in use", err)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.CreatedAccountResult{AccountID: id, AccountNumber: p.AccountNumber, OwnerUsername: p.OwnerUsername})
}

package domain

import "time"

// Account types accepted by the create_account action.
const (
	AccountTypeSavings = "SAVINGS"
	AccountTypeCurrent = "CURRENT"
	AccountTypeLoan    = "LOAN"
)

// Account is created by an approved create_account action.
// OpeningBalance is stored in minor currency units.
type Account struct {
	ID             int64     `json:"id"`
	AccountNumber  string    `json:"accountNumber"`
	OwnerUsername  string    `json:"ownerUsername"`
	AccountType    string    `json:"accountType"`
	Currency       string    `json:"currency"`
	OpeningBalance int64     `json:"openingBalance"`
	Created        time.Time `json:"created"`
}

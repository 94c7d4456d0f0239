package repository

import (
	"database/sql"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/pkg/errors"
)

// AccountRepository provides persistence for the accounts table.
type AccountRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewAccountRepository(db *sql.DB, clock core.Clock) *AccountRepository {
	return &AccountRepository{db: db, clock: clock}
}

// InsertTx inserts an account on the caller's transaction. Uniqueness of
// the account number is enforced by the uq_accounts_number constraint.
func (r *AccountRepository) InsertTx(tx *sql.Tx, a *domain.Account) (int64, error) {
	if a.Created.IsZero() {
		a.Created = r.clock.Now().UTC()
	}
	base := `
        INSERT INTO accounts (account_number, owner_username, account_type, currency, opening_balance, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `,` + placeholder(6) + `)
    `
	vals := []interface{}{
		a.AccountNumber,
		a.OwnerUsername,
		a.AccountType,
		a.Currency,
		a.OpeningBalance,
		formatDateInDatabase(a.Created),
	}

	var id int64
	var err error
	if supportsReturning() {
		err = tx.QueryRow(base+" RETURNING id", vals...).Scan(&id)
	} else {
		res, e := tx.Exec(base, vals...)
		if e != nil {
			err = e
		} else {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, translateDBError(err)
	}
	a.ID = id
	return id, nil
}

// FindByNumber fetches an account by its number. Returns (nil, nil) if not found.
func (r *AccountRepository) FindByNumber(accountNumber string) (*domain.Account, error) {
	query := `
        SELECT id, account_number, owner_username, account_type, currency, opening_balance, created
        FROM accounts
        WHERE account_number = ` + placeholder(1) + `
        LIMIT 1
    `
	var a domain.Account
	err := r.db.QueryRow(query, accountNumber).Scan(
		&a.ID,
		&a.AccountNumber,
		&a.OwnerUsername,
		&a.AccountType,
		&a.Currency,
		&a.OpeningBalance,
		&a.Created,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find account")
	}
	return &a, nil
}

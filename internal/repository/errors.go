package repository

import (
	goerrors "errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrDuplicateKey is returned when an insert hits a unique constraint.
// Handlers translate it into an execution error for the caller; we rely
// on the constraint instead of a check-then-insert read, which would race.
var ErrDuplicateKey = goerrors.New("duplicate key")

const pgUniqueViolation = "23505"
const mysqlDuplicateEntry = 1062

// translateDBError maps driver specific constraint failures onto
// ErrDuplicateKey so callers never have to know which driver is loaded.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if goerrors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return ErrDuplicateKey
	}
	var myErr *mysql.MySQLError
	if goerrors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicateKey
	}
	var liteErr sqlite3.Error
	if goerrors.As(err, &liteErr) {
		if liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicateKey
		}
	}
	return err
}

package domain

import (
	"database/sql"
)

// User is both a back-office operator (maker/checker identity with
// credentials) and the row a create_user action produces. Users created
// through the approval flow start disabled with no credentials.
type User struct {
	ID            int64          `json:"id"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	FullName      sql.NullString `json:"fullName"`
	Password      sql.NullString `json:"-"`
	SessionID     sql.NullString `json:"-"`
	SessionExpiry sql.NullTime   `json:"-"`
	ApiKey        sql.NullString `json:"-"`
	Enabled       bool           `json:"enabled"`
	Created       sql.NullTime   `json:"created"`
}

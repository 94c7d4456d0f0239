package repository

import (
	"database/sql"
	"time"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/pkg/errors"
)

// UserRepository provides persistence methods for the users table.
type UserRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewUserRepository(db *sql.DB, clock core.Clock) *UserRepository {
	return &UserRepository{db: db, clock: clock}
}

const userColumns = ` id, username, email, full_name, password, session_id, session_expiry, api_key, enabled, created `

// Save inserts a new user and returns its generated id. Used by the
// bootstrap path; the approval flow inserts through InsertTx instead.
func (r *UserRepository) Save(u *domain.User) (int64, error) {
	if !u.Created.Valid {
		u.Created = sql.NullTime{Time: r.clock.Now().UTC(), Valid: true}
	}
	return r.insert(r.db, u)
}

// InsertTx inserts a user on the caller's transaction so a failed
// approval rolls the row back with the status transition.
func (r *UserRepository) InsertTx(tx *sql.Tx, u *domain.User) (int64, error) {
	if !u.Created.Valid {
		u.Created = sql.NullTime{Time: r.clock.Now().UTC(), Valid: true}
	}
	return r.insert(tx, u)
}

func (r *UserRepository) insert(q dbtx, u *domain.User) (int64, error) {
	base := `
        INSERT INTO users (username, email, full_name, password, session_id, session_expiry, api_key, enabled, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `,` + placeholder(6) + `,` + placeholder(7) + `,` + placeholder(8) + `,` + placeholder(9) + `)
    `
	vals := []interface{}{
		u.Username,
		u.Email,
		u.FullName,
		u.Password,
		u.SessionID,
		formatDateInDatabaseNull(u.SessionExpiry),
		u.ApiKey,
		u.Enabled,
		formatDateInDatabaseNull(u.Created),
	}

	var id int64
	var err error
	if supportsReturning() {
		err = q.QueryRow(base+" RETURNING id", vals...).Scan(&id)
	} else {
		res, e := q.Exec(base, vals...)
		if e != nil {
			err = e
		} else {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, translateDBError(err)
	}
	u.ID = id
	return id, nil
}

// FindByUsername fetches a user by exact username. Returns (nil, nil) if not found.
func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE username = ` + placeholder(1) + `
        LIMIT 1
    `
	return r.scanOne(r.db.QueryRow(query, username))
}

// ExistsEnabled reports whether an enabled user with the given username
// exists. Used as a cheap referential pre-check before anything persists.
func (r *UserRepository) ExistsEnabled(username string) (bool, error) {
	return r.existsEnabled(r.db, username)
}

// ExistsEnabledTx is the authoritative variant on the approval
// transaction.
func (r *UserRepository) ExistsEnabledTx(tx *sql.Tx, username string) (bool, error) {
	return r.existsEnabled(tx, username)
}

func (r *UserRepository) existsEnabled(q dbtx, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = ` + placeholder(1) + ` AND enabled = ` + placeholder(2)
	var n int
	if err := q.QueryRow(query, username, true).Scan(&n); err != nil {
		return false, errors.Wrap(err, "check user exists")
	}
	return n > 0, nil
}

// FindBySessionID fetches a user by session_id with an unexpired session.
func (r *UserRepository) FindBySessionID(sessionID string, now time.Time) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE session_id = ` + placeholder(1) + ` AND session_expiry > ` + placeholder(2) + `
        LIMIT 1
    `
	return r.scanOne(r.db.QueryRow(query, sessionID, formatDateInDatabase(now)))
}

// FindByApiKey fetches an enabled user by api_key. Returns (nil, nil) if not found.
func (r *UserRepository) FindByApiKey(apiKey string) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE api_key = ` + placeholder(1) + ` AND enabled = ` + placeholder(2) + `
        LIMIT 1
    `
	return r.scanOne(r.db.QueryRow(query, apiKey, true))
}

// UpdateSession sets session_id and session_expiry for a user by id.
func (r *UserRepository) UpdateSession(userID int64, sessionID string, expiry time.Time) error {
	query := `
        UPDATE users
        SET session_id = ` + placeholder(1) + `, session_expiry = ` + placeholder(2) + `
        WHERE id = ` + placeholder(3) + `
    `
	_, err := r.db.Exec(query, sessionID, formatDateInDatabase(expiry), userID)
	return errors.Wrap(err, "update session")
}

// ClearSessionBySessionID nulls the session for the user holding it.
func (r *UserRepository) ClearSessionBySessionID(sessionID string) error {
	query := `
        UPDATE users
        SET session_id = NULL, session_expiry = NULL
        WHERE session_id = ` + placeholder(1) + `
    `
	_, err := r.db.Exec(query, sessionID)
	return errors.Wrap(err, "clear session")
}

// FindAll returns all users ordered by id ascending.
func (r *UserRepository) FindAll() (*[]domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        ORDER BY id ASC
    `
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "find all users")
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.Email,
			&u.FullName,
			&u.Password,
			&u.SessionID,
			&u.SessionExpiry,
			&u.ApiKey,
			&u.Enabled,
			&u.Created,
		); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate users")
	}
	return &users, nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.Password,
		&u.SessionID,
		&u.SessionExpiry,
		&u.ApiKey,
		&u.Enabled,
		&u.Created,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan user")
	}
	return &u, nil
}

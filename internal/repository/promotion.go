package repository

import (
	"database/sql"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/pkg/errors"
)

// PromotionRepository provides persistence for the promotions table.
type PromotionRepository struct {
	db    *sql.DB
	clock core.Clock
}

func NewPromotionRepository(db *sql.DB, clock core.Clock) *PromotionRepository {
	return &PromotionRepository{db: db, clock: clock}
}

// InsertTx inserts a promotion on the caller's transaction. The
// uq_promotions_code constraint enforces code uniqueness.
func (r *PromotionRepository) InsertTx(tx *sql.Tx, p *domain.Promotion) (int64, error) {
	if p.Created.IsZero() {
		p.Created = r.clock.Now().UTC()
	}
	base := `
        INSERT INTO promotions (code, name, description, discount_percent, starts_at, ends_at, created)
        VALUES (` + placeholder(1) + `,` + placeholder(2) + `,` + placeholder(3) + `,` + placeholder(4) + `,` + placeholder(5) + `,` + placeholder(6) + `,` + placeholder(7) + `)
    `
	vals := []interface{}{
		p.Code,
		p.Name,
		p.Description,
		p.DiscountPercent,
		formatDateInDatabase(p.StartsAt),
		formatDateInDatabase(p.EndsAt),
		formatDateInDatabase(p.Created),
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
	p.ID = id
	return id, nil
}

// FindByCode fetches a promotion by code. Returns (nil, nil) if not found.
func (r *PromotionRepository) FindByCode(code string) (*domain.Promotion, error) {
	query := `
        SELECT id, code, name, description, discount_percent, starts_at, ends_at, created
        FROM promotions
        WHERE code = ` + placeholder(1) + `
        LIMIT 1
    `
	var p domain.Promotion
	err := r.db.QueryRow(query, code).Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Description,
		&p.DiscountPercent,
		&p.StartsAt,
		&p.EndsAt,
		&p.Created,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find promotion")
	}
	return &p, nil
}

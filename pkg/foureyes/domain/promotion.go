package domain

import (
	"database/sql"
	"time"
)

// Promotion is created by an approved create_promotion action.
type Promotion struct {
	ID              int64          `json:"id"`
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Description     sql.NullString `json:"description"`
	DiscountPercent float64        `json:"discountPercent"`
	StartsAt        time.Time      `json:"startsAt"`
	EndsAt          time.Time      `json:"endsAt"`
	Created         time.Time      `json:"created"`
}

package handlers

import (
	"database/sql"
	"encoding/json"
	goerrors "errors"
	"regexp"
	"time"

	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"
	"github.com/foureyes/foureyes/pkg/foureyes/models"
	"github.com/go-playground/validator/v10"
)

const TypeCreatePromotion = "create_promotion"

var promoCodeRe = regexp.MustCompile(`^[A-Z0-9_]+$`)

type createPromotionPayload struct {
	Code            string    `json:"code" validate:"required,max=64,promocode"`
	Name            string    `json:"name" validate:"required,max=128"`
	Description     string    `json:"description" validate:"omitempty,max=500"`
	DiscountPercent float64   `json:"discountPercent" validate:"gte=0,lte=100"`
	StartsAt        time.Time `json:"startsAt" validate:"required"`
	EndsAt          time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
}

// CreatePromotionHandler proposes a discount promotion.
type CreatePromotionHandler struct {
	promotions *repository.PromotionRepository
	validate   *validator.Validate
}

func NewCreatePromotionHandler(promotions *repository.PromotionRepository) *CreatePromotionHandler {
	v := newValidator()
	// codes are SHOUTY_SNAKE so they read well on receipts
	_ = v.RegisterValidation("promocode", func(fl validator.FieldLevel) bool {
		return promoCodeRe.MatchString(fl.Field().String())
	})
	return &CreatePromotionHandler{promotions: promotions, validate: v}
}

func (h *CreatePromotionHandler) Meta() core.ActionMeta {
	return core.ActionMeta{
		Type:        TypeCreatePromotion,
		Name:        "Create promotion",
		Description: "Creates a percentage discount promotion with a validity window",
		Category:    "marketing",
	}
}

func (h *CreatePromotionHandler) Validate(payload json.RawMessage) error {
	p, err := decodePayload[createPromotionPayload](payload)
	if err != nil {
		return err
	}
	return checkStruct(h.validate, p)
}

func (h *CreatePromotionHandler) Execute(tx *sql.Tx, payload json.RawMessage) (json.RawMessage, error) {
	p, err := decodePayload[createPromotionPayload](payload)
	if err != nil {
		return nil, err
	}
	promo := &domain.Promotion{
		Code:            p.Code,
		Name:            p.Name,
		Description:     sql.NullString{String: p.Description, Valid: p.Description != ""},
		DiscountPercent: p.DiscountPercent,
		StartsAt:        p.StartsAt.UTC(),
		EndsAt:          p.EndsAt.UTC(),
	}
	id, err := h.promotions.InsertTx(tx, promo)
	if goerrors.Is(err, repository.ErrDuplicateKey) {
		return nil, core.NewExecutionError("promotion code is already in use", err)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.CreatedPromotionResult{PromotionID: id, Code: p.Code})
}

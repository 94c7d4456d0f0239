package models

// Execution result summaries returned by the built-in handlers and
// attached to approved actions.

type CreatedUserResult struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CreatedAccountResult struct {
	AccountID     int64  `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	OwnerUsername string `json:"ownerUsername"`
}

type CreatedPromotionResult struct {
	PromotionID int64  `json:"promotionId"`
	Code        string `json:"code"`
}

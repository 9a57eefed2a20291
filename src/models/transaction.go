package models

import (
	"time"

	"pfm-server/src/money"
)

// EntityType tags which store a transaction endpoint id resolves
// against. A transaction does not point at an account or category
// structurally; the tag decides at lookup time.
type EntityType string

const (
	EntityAccount  EntityType = "ACCOUNT"
	EntityCategory EntityType = "CATEGORY"
)

type Transaction struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Date        time.Time   `json:"date"`
	FromType    EntityType  `json:"from_type"`
	FromID      int64       `json:"from_id"`
	ToType      EntityType  `json:"to_type"`
	ToID        int64       `json:"to_id"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description"`
	Recurrence  string      `json:"recurrence"`
	AutoExecute bool        `json:"auto_execute"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type TransactionRequest struct {
	Date        time.Time   `json:"date"`
	FromType    EntityType  `json:"from_type"`
	FromID      int64       `json:"from_id"`
	ToType      EntityType  `json:"to_type"`
	ToID        int64       `json:"to_id"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description"`
	Recurrence  string      `json:"recurrence"`
	AutoExecute bool        `json:"auto_execute"`
}

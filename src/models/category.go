package models

import (
	"time"

	"pfm-server/src/money"
)

type CategoryType string

const (
	CategoryIncome   CategoryType = "INCOME"
	CategoryExpenses CategoryType = "EXPENSES"
)

// Reserved names for the hidden per-user categories that back balance
// sync adjustments. Created at registration, excluded from listings,
// never deleted.
const (
	SystemIncomeName   = "SYS_INCOME"
	SystemExpensesName = "SYS_EXPENSES"
)

type Category struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Sum       money.Money  `json:"sum"`
	Limit     *string      `json:"limit,omitempty"`
	System    bool         `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type CategoryRequest struct {
	Name  string       `json:"name"`
	Type  CategoryType `json:"type"`
	Limit *string      `json:"limit"`
}

package models

import (
	"time"

	"pfm-server/src/money"
)

type AccountStatus string

const (
	AccountActivated   AccountStatus = "ACTIVATED"
	AccountDeactivated AccountStatus = "DEACTIVATED"
	AccountDeleted     AccountStatus = "DELETED"
)

// Account is a user-owned balance holder. Deletion is a one-way status
// flip to DELETED; the row is retained.
type Account struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Name      string        `json:"name"`
	Balance   money.Money   `json:"balance"`
	Goal      *money.Money  `json:"goal,omitempty"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type AccountRequest struct {
	Name    string       `json:"name"`
	Balance money.Money  `json:"balance"`
	Goal    *money.Money `json:"goal"`
}

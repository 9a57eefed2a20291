package handlers

import (
	"errors"
	"net/http"

	"pfm-server/src/ledger"
)

// writeDomainError maps ledger rejections onto HTTP status codes.
// Anything outside the domain taxonomy is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ledger.ErrInvalidData):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrStateConflict), errors.Is(err, ledger.ErrNameConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

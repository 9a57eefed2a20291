package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"pfm-server/src/db"
	"pfm-server/src/ledger"
	"pfm-server/src/models"
	"pfm-server/src/money"

	"github.com/go-chi/chi/v5"
)

func accountsCacheKey(userID int64) string {
	return fmt.Sprintf("accounts:%d", userID)
}

func CreateAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.AccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		created, err := svc.CreateAccount(r.Context(), userID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to create account for user %d: %v", userID, err)
			writeDomainError(w, err)
			return
		}
		db.AccountCacheKeys.ClearAll()

		log.Printf("INFO: Created account id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllAccounts(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := accountsCacheKey(userID)
		if cached, found := db.AccountCacheKeys.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		accounts, err := svc.ListAccounts(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get accounts for user %d: %v", userID, err)
			writeDomainError(w, err)
			return
		}
		db.AccountCacheKeys.Set(cacheKey, accounts)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accounts)
	}
}

func GetAccountByID(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := parseIDParam(r, "account_id")
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		account, err := svc.GetAccount(r.Context(), userID, accountID)
		if err != nil {
			log.Printf("ERROR: Failed to get account %d for user %d: %v", accountID, userID, err)
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(account)
	}
}

func UpdateAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := parseIDParam(r, "account_id")
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		var req models.AccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateAccount(r.Context(), userID, accountID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to update account %d for user %d: %v", accountID, userID, err)
			writeDomainError(w, err)
			return
		}
		db.AccountCacheKeys.ClearAll()

		log.Printf("INFO: Updated account id %d for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func SetAccountStatus(svc *ledger.Service, activate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := parseIDParam(r, "account_id")
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		if activate {
			err = svc.ActivateAccount(r.Context(), userID, accountID)
		} else {
			err = svc.DeactivateAccount(r.Context(), userID, accountID)
		}
		if err != nil {
			log.Printf("ERROR: Failed to change status of account %d for user %d: %v", accountID, userID, err)
			writeDomainError(w, err)
			return
		}
		db.AccountCacheKeys.ClearAll()

		log.Printf("INFO: Changed status of account id %d for user %d (activate=%t)", accountID, userID, activate)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "account status updated"})
	}
}

func DeleteAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := parseIDParam(r, "account_id")
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		if err := svc.DeleteAccount(r.Context(), userID, accountID); err != nil {
			log.Printf("ERROR: Failed to delete account %d for user %d: %v", accountID, userID, err)
			writeDomainError(w, err)
			return
		}
		db.AccountCacheKeys.ClearAll()

		log.Printf("INFO: Deleted account id %d for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
	}
}

// SyncAccountBalance reconciles an account to a caller-supplied
// balance through a synthetic ledger transaction.
func SyncAccountBalance(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := parseIDParam(r, "account_id")
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		var req struct {
			NewBalance money.Money `json:"new_balance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode balance sync request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		txn, err := svc.ApplyBalanceSync(r.Context(), userID, accountID, req.NewBalance)
		if err != nil {
			log.Printf("ERROR: Failed to sync balance of account %d for user %d: %v", accountID, userID, err)
			writeDomainError(w, err)
			return
		}
		clearLedgerCaches()

		log.Printf("INFO: Synced balance of account id %d for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		if txn == nil {
			// Balance already matched; nothing was created.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(txn)
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("ERROR: Invalid %s param: %s", name, raw)
		return 0, err
	}
	return id, nil
}

package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"pfm-server/src/db"
	"pfm-server/src/ledger"
	"pfm-server/src/models"
)

func transactionsCacheKey(userID int64) string {
	return fmt.Sprintf("transactions:%d", userID)
}

// clearLedgerCaches drops every cached listing whose contents a ledger
// mutation can change: transactions plus the balances and sums baked
// into account and category listings.
func clearLedgerCaches() {
	db.TransactionCacheKeys.ClearAll()
	db.AccountCacheKeys.ClearAll()
	db.CategoryCacheKeys.ClearAll()
}

func CreateTransaction(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		created, err := svc.CreateTransaction(r.Context(), userID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			writeDomainError(w, err)
			return
		}
		clearLedgerCaches()

		log.Printf("INFO: Created transaction id %d for user %d (%s %d -> %s %d)",
			created.ID, userID, created.FromType, created.FromID, created.ToType, created.ToID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllTransactions(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := transactionsCacheKey(userID)
		if cached, found := db.TransactionCacheKeys.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		transactions, err := svc.ListTransactions(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			writeDomainError(w, err)
			return
		}
		db.TransactionCacheKeys.Set(cacheKey, transactions)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transactions)
	}
}

func GetTransactionByID(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID, err := parseIDParam(r, "transaction_id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		transaction, err := svc.GetTransaction(r.Context(), userID, transactionID)
		if err != nil {
			log.Printf("ERROR: Failed to get transaction %d for user %d: %v", transactionID, userID, err)
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transaction)
	}
}

func GetTransactionsByAccount(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := parseIDParam(r, "account_id")
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		transactions, err := svc.ListTransactionsByAccount(r.Context(), userID, accountID)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions of account %d for user %d: %v", accountID, userID, err)
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transactions)
	}
}

func UpdateTransaction(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID, err := parseIDParam(r, "transaction_id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateTransaction(r.Context(), userID, transactionID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction %d for user %d: %v", transactionID, userID, err)
			writeDomainError(w, err)
			return
		}
		clearLedgerCaches()

		log.Printf("INFO: Updated transaction id %d for user %d", transactionID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID, err := parseIDParam(r, "transaction_id")
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		deleted, err := svc.DeleteTransaction(r.Context(), userID, transactionID)
		if err != nil {
			log.Printf("ERROR: Failed to delete transaction %d for user %d: %v", transactionID, userID, err)
			writeDomainError(w, err)
			return
		}
		clearLedgerCaches()

		log.Printf("INFO: Deleted transaction id %d for user %d", transactionID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(deleted)
	}
}

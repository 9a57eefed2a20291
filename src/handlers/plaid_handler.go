package handlers

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"

	sqldb "pfm-server/src/db/sql"
	"pfm-server/src/ledger"
	"pfm-server/src/money"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func CreateLinkToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		user := plaid.LinkTokenCreateRequestUser{
			ClientUserId: strconv.FormatInt(userID, 10),
		}
		request := plaid.NewLinkTokenCreateRequest(
			"PFM",
			"en",
			[]plaid.CountryCode{plaid.COUNTRYCODE_US},
		)
		request.SetUser(user)
		request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})
		resp, _, err := plaidClient.PlaidApi.LinkTokenCreate(context.Background()).LinkTokenCreateRequest(*request).Execute()
		if err != nil {
			http.Error(w, "Failed to create link token", http.StatusInternalServerError)
			log.Printf("ERROR: Plaid link token creation failed for user %d: %v", userID, err)
			return
		}

		linkToken := resp.GetLinkToken()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(linkToken)
	}
}

func ExchangePublicToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			PublicToken string `json:"public_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange public token request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		exchangeReq := plaid.NewItemPublicTokenExchangeRequest(req.PublicToken)
		exchangeResp, _, err := plaidClient.PlaidApi.ItemPublicTokenExchange(context.Background()).ItemPublicTokenExchangeRequest(
			*exchangeReq,
		).Execute()
		if err != nil {
			http.Error(w, "Failed to exchange public token", http.StatusInternalServerError)
			log.Printf("ERROR: Plaid public token exchange failed for user %d: %v", userID, err)
			return
		}

		accessToken := exchangeResp.GetAccessToken()
		itemID := exchangeResp.GetItemId()

		// Institution details are optional; an ItemGet failure must not
		// fail the link flow.
		institutionName := ""
		itemReq := plaid.NewItemGetRequest(accessToken)
		itemResp, _, err := plaidClient.PlaidApi.ItemGet(context.Background()).ItemGetRequest(*itemReq).Execute()
		if err != nil {
			log.Printf("ERROR: Failed to fetch item details for user %d: %v", userID, err)
		} else if name, ok := itemResp.GetItem().AdditionalProperties["institution_name"].(string); ok {
			institutionName = name
		}

		err = sqldb.SavePlaidItem(r.Context(), pool, userID, itemID, accessToken, institutionName)
		if err != nil {
			http.Error(w, "Failed to save plaid item", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to save plaid item for user %d: %v", userID, err)
			return
		}

		log.Printf("INFO: Successfully exchanged public token and saved plaid item for user %d, item %s", userID, itemID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"item_id": itemID,
		})
	}
}

func GetPlaidItems(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		items, err := sqldb.GetPlaidItems(r.Context(), pool, userID)
		if err != nil {
			http.Error(w, "Failed to retrieve plaid items", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to get plaid items for user %d: %v", userID, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

func DeletePlaidItem(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		itemID, err := parseIDParam(r, "item_id")
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}

		if err := sqldb.DeletePlaidItem(r.Context(), pool, userID, itemID); err != nil {
			log.Printf("ERROR: Failed to delete plaid item %d for user %d: %v", itemID, userID, err)
			writeDomainError(w, err)
			return
		}

		log.Printf("INFO: Deleted plaid item id %d for user %d", itemID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "plaid item deleted"})
	}
}

// SyncBalanceFromPlaid fetches the current balance Plaid reports for a
// linked bank account and reconciles a ledger account to it through a
// synthetic income or expense transaction.
func SyncBalanceFromPlaid(plaidClient *plaid.APIClient, pool *pgxpool.Pool, svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			ItemID         int64  `json:"item_id"`
			PlaidAccountID string `json:"plaid_account_id"`
			AccountID      int64  `json:"account_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode plaid balance sync request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		accessToken, err := sqldb.GetPlaidAccessToken(r.Context(), pool, userID, req.ItemID)
		if err != nil {
			log.Printf("ERROR: Failed to get access token for user %d, item %d: %v", userID, req.ItemID, err)
			writeDomainError(w, err)
			return
		}

		request := plaid.NewAccountsGetRequest(accessToken)
		accountsResp, _, err := plaidClient.PlaidApi.AccountsGet(context.Background()).AccountsGetRequest(*request).Execute()
		if err != nil {
			http.Error(w, "Failed to fetch accounts from Plaid", http.StatusInternalServerError)
			log.Printf("ERROR: Failed to fetch accounts for user %d, item %d: %v", userID, req.ItemID, err)
			return
		}

		var observed *float64
		for _, acc := range accountsResp.GetAccounts() {
			if acc.GetAccountId() == req.PlaidAccountID {
				balances := acc.GetBalances()
				current := balances.GetCurrent()
				observed = &current
				break
			}
		}
		if observed == nil {
			log.Printf("ERROR: Plaid account %s not found in item %d for user %d", req.PlaidAccountID, req.ItemID, userID)
			http.Error(w, "plaid account not found", http.StatusNotFound)
			return
		}

		// The only float64 in the pipeline; it becomes cents here and
		// stays integer from this point on.
		newBalance := money.Money(math.Round(*observed * 100))

		txn, err := svc.ApplyBalanceSync(r.Context(), userID, req.AccountID, newBalance)
		if err != nil {
			log.Printf("ERROR: Failed to sync balance of account %d from plaid for user %d: %v", req.AccountID, userID, err)
			writeDomainError(w, err)
			return
		}
		clearLedgerCaches()

		log.Printf("INFO: Synced balance of account id %d from plaid for user %d", req.AccountID, userID)
		w.Header().Set("Content-Type", "application/json")
		if txn == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(txn)
	}
}

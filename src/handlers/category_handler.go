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

func categoriesCacheKey(userID int64) string {
	return fmt.Sprintf("categories:%d", userID)
}

func CreateCategory(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req models.CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		created, err := svc.CreateCategory(r.Context(), userID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			writeDomainError(w, err)
			return
		}
		db.CategoryCacheKeys.ClearAll()

		log.Printf("INFO: Created category id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllCategories(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := categoriesCacheKey(userID)
		if cached, found := db.CategoryCacheKeys.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		categories, err := svc.ListCategories(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			writeDomainError(w, err)
			return
		}
		db.CategoryCacheKeys.Set(cacheKey, categories)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func GetCategoryByID(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID, err := parseIDParam(r, "category_id")
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		category, err := svc.GetCategory(r.Context(), userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to get category %d for user %d: %v", categoryID, userID, err)
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(category)
	}
}

func UpdateCategory(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID, err := parseIDParam(r, "category_id")
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		var req models.CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateCategory(r.Context(), userID, categoryID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to update category %d for user %d: %v", categoryID, userID, err)
			writeDomainError(w, err)
			return
		}
		db.CategoryCacheKeys.ClearAll()

		log.Printf("INFO: Updated category id %d for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategory(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID, err := parseIDParam(r, "category_id")
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		if err := svc.DeleteCategory(r.Context(), userID, categoryID); err != nil {
			log.Printf("ERROR: Failed to delete category %d for user %d: %v", categoryID, userID, err)
			writeDomainError(w, err)
			return
		}
		db.CategoryCacheKeys.ClearAll()

		log.Printf("INFO: Deleted category id %d for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deleted"})
	}
}

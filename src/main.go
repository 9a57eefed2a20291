package main

import (
	"context"
	"log"
	"net/http"

	"pfm-server/src/api"
	"pfm-server/src/config"
	"pfm-server/src/db"
	sqldb "pfm-server/src/db/sql"
	"pfm-server/src/ledger"
	plaidclient "pfm-server/src/plaid"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Connect to database
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	db.InitCache()

	pc := plaidclient.NewClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)

	svc := ledger.NewService(sqldb.NewStore(pool))

	// Router
	router := api.NewRouter(pool, svc, pc)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}

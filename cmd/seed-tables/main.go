package main

import (
	"context"
	"os"
	"strings"

	"github.com/playpool/billiard/internal/config"
	"github.com/playpool/billiard/internal/database"
	"github.com/playpool/billiard/internal/logger"
	"github.com/playpool/billiard/internal/store"
	"github.com/playpool/billiard/internal/tables"
	"go.uber.org/zap"
)

// seed-tables stores the built-in demo tables and creates (or rotates) an API
// client able to manage tables and runs.
func main() {
	cfg := config.Load()
	log := logger.NewDevelopment()
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	tableStore := store.NewTables(db)
	for _, d := range tables.Demos() {
		table, err := d.Spec.Build()
		if err != nil {
			log.Fatal("demo table does not build", zap.String("demo", d.Name), zap.Error(err))
		}
		if _, err := tableStore.Upsert(ctx, d.Name, d.Description, d.Spec, table); err != nil {
			log.Fatal("failed to store demo table", zap.String("demo", d.Name), zap.Error(err))
		}
		log.Info("table seeded", zap.String("name", d.Name), zap.Int("components", table.ComponentCount()))
	}

	clientID := getenv("SEED_CLIENT_ID", "demo-client")
	secret := os.Getenv("SEED_CLIENT_SECRET")
	if secret == "" {
		secret = "change-me-in-production"
		log.Warn("using default client secret; set SEED_CLIENT_SECRET in production")
	}
	scopes := strings.Split(getenv("SEED_CLIENT_SCOPES", "tables:write,runs:write"), ",")

	if err := store.NewClients(db).Create(ctx, clientID, "Seeded client", secret, scopes); err != nil {
		log.Fatal("failed to create API client", zap.Error(err))
	}
	log.Info("API client created/updated",
		zap.String("client_id", clientID),
		zap.Strings("scopes", scopes))
	log.Info("exchange credentials at POST /api/v1/auth/token")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

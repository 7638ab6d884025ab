package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/infrastructure/database"
	"github.com/johnquangdev/oncovoice/pkg/config"
)

// Usage: migrate [up|down]
func main() {
	direction, name := migrate.Up, "up"
	if len(os.Args) > 1 {
		name = os.Args[1]
		switch name {
		case "up":
		case "down":
			direction = migrate.Down
		default:
			log.Fatalf("unknown direction %q, expected up or down", os.Args[1])
		}
	}

	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration; provider credentials are not needed here
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("❌ Failed to load configuration", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db, logger)

	logger.Info("🔄 Applying embedded migrations...", zap.String("direction", name))

	n, err := database.Migrate(db, direction)
	if err != nil {
		logger.Fatal("❌ Failed to apply migrations", zap.Error(err))
	}

	logger.Info("✅ Migrations applied", zap.Int("count", n))
}

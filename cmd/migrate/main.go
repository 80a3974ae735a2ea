// Command migrate applies the database schema explicitly. Production
// deployments run this instead of relying on startup automigration.
package main

import (
	"log"

	"commentpulse/internal/config"
	"commentpulse/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied")
}

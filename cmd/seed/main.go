// Command main runs the database seeder for CommentPulse.
package main

import (
	"flag"
	"log"

	"commentpulse/internal/config"
	"commentpulse/internal/database"
	"commentpulse/internal/seed"
)

func main() {
	numTenants := flag.Int("tenants", 2, "Number of tenants to create")
	numProjects := flag.Int("projects", 3, "Projects per tenant")
	numComments := flag.Int("comments", 40, "Comments per project")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumTenants:         *numTenants,
		ProjectsPerTenant:  *numProjects,
		CommentsPerProject: *numComments,
		ShouldClean:        *shouldClean,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}

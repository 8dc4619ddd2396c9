// Command seed populates the database with demo data for local development.
package main

import (
	"flag"
	"log"

	"devfreebies/internal/config"
	"devfreebies/internal/database"
	"devfreebies/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numResources := flag.Int("resources", 80, "Number of resources to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	if err := s.SeedResources(*numResources, users); err != nil {
		log.Fatalf("Resource seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}

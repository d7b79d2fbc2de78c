// Command main seeds the database with demo content for development.
package main

import (
	"context"
	"flag"
	"log"

	"verdant/internal/config"
	"verdant/internal/database"
	"verdant/internal/docstore"
	"verdant/internal/repository"
	"verdant/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", 12, "Number of posts to create")
	withSettings := flag.Bool("settings", true, "Write a populated settings document")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	store, err := docstore.NewGormStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}

	factory := seed.NewFactory(
		repository.NewPostRepository(store),
		repository.NewSettingsRepository(store),
	)

	ctx := context.Background()
	if err := factory.SeedPosts(ctx, *numPosts); err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}
	if *withSettings {
		if err := factory.SeedSettings(ctx); err != nil {
			log.Fatalf("Settings seeding failed: %v", err)
		}
	}

	log.Printf("Seeded %d posts (settings=%v)", *numPosts, *withSettings)
}

package main

import (
	"context"
	"flag"
	"os"

	"tablebook/internal/config"
	"tablebook/internal/db"
	"tablebook/internal/logging"
	"tablebook/internal/model"
	"tablebook/internal/repository"
	"tablebook/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML catalog to load instead of the bundled one")
	flag.Parse()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting seed script...")

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{Logger: log})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	log.Info("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	restaurants, err := loadCatalog(*file)
	if err != nil {
		log.WithError(err).Fatal("Failed to load catalog")
	}
	log.WithField("restaurants", len(restaurants)).Info("Catalog loaded")

	inserted, err := seed.Catalog(context.Background(), repository.NewRestaurantRepository(gormDB), restaurants, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to seed catalog")
	}
	log.WithField("inserted", inserted).Info("Seed completed successfully!")
}

func loadCatalog(path string) ([]model.Restaurant, error) {
	if path == "" {
		return seed.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}

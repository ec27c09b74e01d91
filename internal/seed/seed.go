// Package seed loads the bundled restaurant catalog.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"tablebook/internal/model"
	"tablebook/internal/repository"
)

//go:embed restaurants.yaml
var defaultCatalog []byte

type catalogFile struct {
	Restaurants []catalogEntry `yaml:"restaurants"`
}

type catalogEntry struct {
	Name        string  `yaml:"name"`
	Location    string  `yaml:"location"`
	Cuisine     string  `yaml:"cuisine"`
	Rating      float64 `yaml:"rating"`
	PriceRange  string  `yaml:"price_range"`
	ImageURL    string  `yaml:"image_url"`
	Description string  `yaml:"description"`
}

// DefaultCatalog returns the restaurants bundled with the binary.
func DefaultCatalog() ([]model.Restaurant, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a YAML catalog and checks every entry.
func Parse(data []byte) ([]model.Restaurant, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	restaurants := make([]model.Restaurant, 0, len(file.Restaurants))
	for i, entry := range file.Restaurants {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
		if entry.Rating < 0 || entry.Rating > 5 {
			return nil, fmt.Errorf("catalog entry %q: rating %.1f out of range", entry.Name, entry.Rating)
		}
		restaurants = append(restaurants, model.Restaurant{
			Name:        entry.Name,
			Location:    entry.Location,
			Cuisine:     entry.Cuisine,
			Rating:      entry.Rating,
			PriceRange:  entry.PriceRange,
			ImageURL:    entry.ImageURL,
			Description: entry.Description,
		})
	}
	return restaurants, nil
}

// Catalog inserts restaurants when the catalog is empty and reports how
// many were inserted. A populated catalog is left untouched.
func Catalog(ctx context.Context, repo repository.RestaurantRepository, restaurants []model.Restaurant, log logrus.FieldLogger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	if count > 0 {
		log.WithField("existing", count).Info("catalog already seeded")
		return 0, nil
	}

	if err := repo.CreateBatch(ctx, restaurants); err != nil {
		return 0, fmt.Errorf("insert restaurants: %w", err)
	}
	log.WithField("inserted", len(restaurants)).Info("catalog seeded")
	return len(restaurants), nil
}

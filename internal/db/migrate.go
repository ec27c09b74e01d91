package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tablebook/internal/model"
)

// Migrate creates or updates the schema. With reset set, existing tables are
// dropped first, children before parents so foreign keys do not block the drop.
func Migrate(gormDB *gorm.DB, reset bool, log logrus.FieldLogger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		for _, table := range []interface{}{&model.Reservation{}, &model.Restaurant{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.WithError(err).Warn("drop table failed (may not exist)")
			}
		}
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Restaurant{},
		&model.Reservation{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

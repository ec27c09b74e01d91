package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"tablebook/internal/model"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "postgresql", "sqlite"} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d, driver)
	}

	_, err := Dialector("oracle", "dsn")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, Ping(context.Background(), gormDB))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, Ping(context.Background(), gormDB))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	gormDB, err := Open("sqlite", "file:migrate_test?mode=memory&cache=shared&_pragma=foreign_keys(1)", Options{
		MaxOpenConns: 1,
		Logger:       logger,
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB, false, logger))
	for _, table := range []interface{}{&model.User{}, &model.Restaurant{}, &model.Reservation{}} {
		assert.True(t, gormDB.Migrator().HasTable(table))
	}

	// Reset drops and recreates, leaving the tables empty.
	require.NoError(t, gormDB.Create(&model.Restaurant{Name: "Sakura", Rating: 4}).Error)
	require.NoError(t, Migrate(gormDB, true, logger))

	var count int64
	require.NoError(t, gormDB.Model(&model.Restaurant{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn", Options{})
	assert.Error(t, err)
}

package main

import (
	"strings"
	"time"

	"taskman/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	dsn := strings.TrimSpace(cfg.DatabaseDSN)
	if dsn == "" {
		logrus.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect postgres database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("failed to access underlying sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Schema migrations are controlled with DB_AUTO_MIGRATE (default true).
	// Migrate models individually so a failure on one doesn't block others.
	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(&models.User{}); err != nil {
			logrus.WithError(err).Warn("migration warning (users)")
		}
		if err := db.AutoMigrate(&models.Task{}); err != nil {
			logrus.WithError(err).Warn("migration warning (tasks)")
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			logrus.WithError(err).Warn("migration warning (refresh_tokens)")
		}
	}
}

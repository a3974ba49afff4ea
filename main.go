package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

func main() {
	if err := loadConfig(); err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./taskman migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate()
		return
	}

	initDB()
	initRedis()

	authLimiter = NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)

	r := gin.Default()
	r.Use(requestIDMiddleware())
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	r.Use(metricsMiddleware())

	setupRoutes(r)

	logrus.WithField("addr", cfg.ListenAddr).Info("server listening")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

// runMigrate applies the schema even when DB_AUTO_MIGRATE is off; an
// explicit migrate command always means migrate.
func runMigrate() {
	cfg.DBAutoMigrate = true
	initDB()
	logrus.Info("migration completed")
}

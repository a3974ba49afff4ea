package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"taskman/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newUser builds the account record; inactive accounts are created for
// pre-provisioning and cannot log in until activated.
func newUser(email, username string, hashedPassword []byte, inactive bool) models.User {
	return models.User{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Username:       strings.TrimSpace(username),
		HashedPassword: hashedPassword,
		IsActive:       !inactive,
	}
}

func main() {
	inactive := flag.Bool("inactive", false, "create the account deactivated")
	flag.Parse()
	if flag.NArg() < 3 {
		fmt.Println("usage: go run ./cmd/create_user [--inactive] <email> <username> <password>")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	username := strings.TrimSpace(flag.Arg(1))
	password := flag.Arg(2)

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// check existing
	var existing models.User
	if err := db.Where("email = ? OR username = ?", email, username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", existing.Email, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := newUser(email, username, hpw, *inactive)
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d active=%t\n", user.Email, user.ID, user.IsActive)
}

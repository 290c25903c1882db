package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the record store. The default is an embedded sqlite file so a
// field laptop works fully offline; set DB_DSN to a postgres DSN for a shared
// office install.
func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.Contains(dsn, "host="):
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		if dsn == "" {
			dsn = "fieldops.db"
		}
		DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
}

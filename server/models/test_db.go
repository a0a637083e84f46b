package models

import (
	"os"

	"github.com/vitahq/vita/server/auth"
	"github.com/vitahq/vita/shared"
	"golang.org/x/crypto/bcrypt"
)

// InitializeTestDb points the package at a fresh, migrated sqlite db
// in a temp directory. Meant for tests only.
func InitializeTestDb() {
	auth.SetPasswordHashCost(bcrypt.MinCost)

	dbRootDir, err := os.MkdirTemp("", "vita-test-db")
	if err != nil {
		logg.Panic(err)
	}

	err = AutoMigrate(
		shared.DatabaseConfig{Driver: "sqlite"},
		shared.SqliteConfig{PassPhrase: "passphrase"},
		dbRootDir,
	)
	if err != nil {
		logg.Panic(err)
	}
}

package models

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	pkgErrors "github.com/pkg/errors"
	"github.com/vitahq/vita/server/logger"
	"github.com/vitahq/vita/shared"
	"github.com/vitahq/vita/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "vita.db"

var logg = logger.NewLogger()
var db *gorm.DB

// AutoMigrate opens the configured database, auto-migrates the schema
// and inserts seed data
func AutoMigrate(dbConfig shared.DatabaseConfig, sqliteConfig shared.SqliteConfig, dbRootDir string) error {
	err := openDB(dbConfig, sqliteConfig, dbRootDir)
	if err != nil {
		return err
	}

	err = db.AutoMigrate(&User{}, &NotificationPreference{}, &Session{}, &Resource{})
	if err != nil {
		return pkgErrors.Wrap(err, "AutoMigrate")
	}

	return populateDBWithSeedData()
}

// Ping checks that the database connection is still usable
func Ping() error {
	if db == nil {
		return errors.New("database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// Close closes the underlying connection pool
func Close() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

// DbFilePath is the location of the sqlite db file under 'dbRootDir'
func DbFilePath(dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(dbConfig shared.DatabaseConfig, sqliteConfig shared.SqliteConfig, dbRootDir string) error {
	dialector, err := dialectorFor(dbConfig, sqliteConfig, dbRootDir)
	if err != nil {
		return err
	}

	db, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return nil
}

func dialectorFor(dbConfig shared.DatabaseConfig, sqliteConfig shared.SqliteConfig, dbRootDir string) (gorm.Dialector, error) {
	if dbConfig.Driver != "sqlite" && dbConfig.Driver != "" && dbConfig.DSN == "" {
		return nil, fmt.Errorf("'database.dsn' is required for the %v driver", dbConfig.Driver)
	}

	switch dbConfig.Driver {
	case "mysql":
		return mysql.Open(dbConfig.DSN), nil
	case "postgres":
		return postgres.Open(dbConfig.DSN), nil
	case "sqlite", "":
		dbDSNVal, err := sqliteDSN(sqliteConfig.PassPhrase, dbRootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		return sqliteEncrypt.Open(dbDSNVal), nil
	}

	return nil, fmt.Errorf("unsupported database driver '%v'", dbConfig.Driver)
}

func sqliteDSN(passPhrase string, dbRootDir string) (string, error) {
	dbFilePath, err := DbFilePath(dbRootDir)
	if err != nil {
		return "", err
	}

	dbName := fmt.Sprintf("file:%v", dbFilePath)

	return fmt.Sprintf(
		"%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbName,
		passPhrase,
	), nil
}

func populateDBWithSeedData() error {
	var count int64
	if err := db.Model(&Resource{}).Count(&count).Error; err != nil {
		return pkgErrors.Wrap(err, "populateDBWithSeedData")
	}

	if count > 0 {
		return nil
	}

	logg.Info("Inserting seed data into 'Resource'")
	seed := seedResources()
	return db.Create(&seed).Error
}

package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/annotator/internal/entities"
)

// DefaultUsername is the account imports are attributed to when auth is disabled.
const DefaultUsername = "admin"

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the sqlite store at dbPath, migrates the schema and seeds
// the default user. logLevel is one of silent, error, warn, info.
func NewDatabase(dbPath, logLevel string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Project{},
		&entities.Label{},
		&entities.Document{},
		&entities.SequenceAnnotation{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedDefaultUser(); err != nil {
		return nil, fmt.Errorf("failed to seed default user: %w", err)
	}

	slog.Info("database initialized", "path", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedDefaultUser() error {
	var existing entities.User
	err := d.DB.First(&existing, 1).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := entities.User{ID: 1, Username: DefaultUsername}
	if err := d.DB.Create(&user).Error; err != nil {
		return err
	}
	slog.Info("created default user", "username", user.Username)
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

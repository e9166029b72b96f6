package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/entities"
)

var defaultCategories = []entities.Category{
	{Name: "Fantasy", Description: "Fantasy and imaginary worlds"},
	{Name: "Science Fiction", Description: "Science fiction"},
	{Name: "Mystery", Description: "Crime and thriller"},
	{Name: "Romance", Description: "Romance"},
	{Name: "Biography", Description: "Biographies and autobiographies"},
	{Name: "History", Description: "History"},
	{Name: "Self-Help", Description: "Personal development"},
	{Name: "Business", Description: "Business and management"},
	{Name: "Fiction", Description: "Literary fiction"},
	{Name: "Non-Fiction", Description: "Non-fiction"},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the sqlite database, runs migrations and seeds the
// shared category list. Foreign keys are enabled so that deletes cascade
// at the database level.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Review{},
		&entities.ReadingGoal{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedCategories() error {
	for _, category := range defaultCategories {
		var existing entities.Category
		result := d.DB.Where("name = ?", category.Name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Name, err)
			}
		}
	}
	return nil
}

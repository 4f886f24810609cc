package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dfi-sistemas/legajosbackend/models"
)

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrateModels can be called after InitGormDB to migrate schemas
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Person{},
		&models.PersonEmail{},
		&models.PersonPhone{},
		&models.PersonSocial{},
		&models.PersonAddress{},
		&models.Case{},
		&models.PersonCase{},
		&models.CaseMedia{},
		&models.Source{},
		&models.SourceRecord{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}

// EnsureAdminUser creates the initial administrator account when the users
// table is empty, so a fresh deployment can be logged into.
func EnsureAdminUser(db *gorm.DB, name, email, password string, bcryptCost int) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if name == "" {
		name = "Administrador"
	}
	admin := &models.User{
		Name:   name,
		Email:  email,
		Role:   models.RoleAdmin,
		Active: true,
	}
	if err := admin.SetPassword(password, bcryptCost); err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create seed admin user: %w", err)
	}
	log.Printf("Seeded initial admin user %s", email)
	return nil
}

package database

import (
	"log"
	"os"

	"github.com/Ken-Miura/career-change-supporter-sub005/config"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/domain"
	"github.com/Ken-Miura/career-change-supporter-sub005/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserAccount{},
		&models.ConsultantProfile{},
		&models.ConsultationRequest{},
		&models.Consultation{},
		&models.UserRating{},
		&models.ConsultantRating{},
		&models.Settlement{},
		&models.StoppedSettlement{},
		&models.AwaitingPayment{},
		&models.AwaitingWithdrawal{},
		&models.ReceiptOfConsultation{},
		&models.LeftAwaitingWithdrawal{},
		&models.NeglectedPayment{},
		&models.RefundedPayment{},
		&models.Receipt{},
		&models.Refund{},
	)
}

// SeedAdmin creates the bootstrap admin account when none exists. Credentials
// come from ADMIN_EMAIL / ADMIN_PASSWORD; without them seeding is skipped.
func SeedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	var count int64
	db.Model(&models.UserAccount{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] bcrypt: %v", err)
		return
	}
	admin := &models.UserAccount{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[Seed] admin account: %v", err)
		return
	}
	log.Printf("[Seed] admin account created: %s", email)
}

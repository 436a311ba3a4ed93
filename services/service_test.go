package services

import (
	"cardspend/config"
	"cardspend/database"
	"cardspend/models"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB создает изолированную in-memory базу для теста
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть тестовую базу: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("не удалось получить пул соединений: %v", err)
	}
	// Одно соединение, иначе каждое соединение получает свою in-memory базу
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("не удалось выполнить миграцию: %v", err)
	}

	return db
}

// newTestConfig возвращает конфигурацию для тестов: шифрование номеров
// карт выключено, HMAC-ключ фиксированный
func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.CardHMACKey = "test-hmac-key"
	return cfg
}

func newTestCardService(db *gorm.DB) *CardService {
	return NewCardService(db, newTestConfig(), nil, nil)
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	testUserSeq++
	user := &models.User{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     fmt.Sprintf("ivan%d@example.com", testUserSeq),
		Password:  "hashed-password",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("не удалось создать пользователя: %v", err)
	}
	return user
}

func createTestCard(t *testing.T, svc *CardService, userID uint, number string, limit, balance float64) *CardResponseDTO {
	t.Helper()
	card, err := svc.CreateCard(CreateCardDTO{
		CardName:       "Тестовая карта",
		CardNumber:     number,
		CardType:       "Visa",
		ExpiryMonth:    12,
		ExpiryYear:     2030,
		CreditLimit:    limit,
		CurrentBalance: balance,
		UserID:         userID,
	})
	if err != nil {
		t.Fatalf("не удалось создать карту: %v", err)
	}
	return card
}

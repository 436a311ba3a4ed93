package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port        int
		MetricsPort int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	CentralBank struct {
		URL      string // URL XML-фида с ключевой ставкой
		CacheTTL int    // в часах
	}
	LogDir         string
	CardPrivateKey string // Приватный ключ для расшифровки номеров карт
	CardPublicKey  string // Публичный ключ для шифрования номеров карт
	CardHMACKey    string // Ключ для HMAC-индекса номеров карт
}

// NewConfig создает новый экземпляр конфигурации
func NewConfig() (*Config, error) {
	v := viper.New()

	// Значения по умолчанию
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("METRICS_PORT", 9090)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "cardspend_db")
	v.SetDefault("JWT_SECRET_KEY", "your-secret-key-here")
	v.SetDefault("JWT_EXPIRES_IN", 24)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "your-email@gmail.com")
	v.SetDefault("SMTP_PASSWORD", "your-app-password")
	v.SetDefault("SMTP_FROM", "your-email@gmail.com")
	v.SetDefault("CBR_URL", "https://www.cbr.ru/scripts/XML_daily.asp")
	v.SetDefault("CBR_CACHE_TTL", 24)
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("CARD_PRIVATE_KEY", "")
	v.SetDefault("CARD_PUBLIC_KEY", "")
	v.SetDefault("CARD_HMAC_KEY", "your-card-hmac-key-here")

	// Переопределение через переменные окружения
	v.AutomaticEnv()

	cfg := &Config{}

	// Настройки сервера
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	if cfg.Server.Port <= 0 {
		return nil, fmt.Errorf("неверный формат порта сервера: %d", cfg.Server.Port)
	}
	cfg.Server.MetricsPort = v.GetInt("METRICS_PORT")

	// Настройки базы данных
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetInt("DB_PORT")
	if cfg.DB.Port <= 0 {
		return nil, fmt.Errorf("неверный формат порта базы данных: %d", cfg.DB.Port)
	}
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.DBName = v.GetString("DB_NAME")

	// Настройки JWT
	cfg.JWT.SecretKey = v.GetString("JWT_SECRET_KEY")
	cfg.JWT.ExpiresIn = v.GetInt("JWT_EXPIRES_IN")
	if cfg.JWT.ExpiresIn <= 0 {
		return nil, fmt.Errorf("неверный формат времени жизни JWT: %d", cfg.JWT.ExpiresIn)
	}

	// Настройки SMTP
	cfg.SMTP.Host = v.GetString("SMTP_HOST")
	cfg.SMTP.Port = v.GetInt("SMTP_PORT")
	cfg.SMTP.Username = v.GetString("SMTP_USERNAME")
	cfg.SMTP.Password = v.GetString("SMTP_PASSWORD")
	cfg.SMTP.From = v.GetString("SMTP_FROM")

	// Настройки фида центрального банка
	cfg.CentralBank.URL = v.GetString("CBR_URL")
	cfg.CentralBank.CacheTTL = v.GetInt("CBR_CACHE_TTL")

	// Настройки карт
	cfg.LogDir = v.GetString("LOG_DIR")
	cfg.CardPrivateKey = v.GetString("CARD_PRIVATE_KEY")
	cfg.CardPublicKey = v.GetString("CARD_PUBLIC_KEY")
	cfg.CardHMACKey = v.GetString("CARD_HMAC_KEY")

	return cfg, nil
}

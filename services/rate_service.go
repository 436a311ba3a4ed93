package services

import (
	"cardspend/config"
	"cardspend/utils"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
)

// Ставка по умолчанию, когда фид центрального банка недоступен
const defaultInterestRate = 18.5

// Маржа банка поверх ключевой ставки
const rateMargin = 8.0

// RateService получает ключевую ставку из XML-фида центрального банка
// и кеширует ее. Ставка используется как значение по умолчанию для
// процентной ставки при регистрации карты.
type RateService struct {
	mu        sync.Mutex
	client    *http.Client
	url       string
	cacheTTL  time.Duration
	cached    float64
	fetchedAt time.Time
}

// NewRateService создает новый экземпляр RateService
func NewRateService(cfg *config.Config) *RateService {
	return &RateService{
		client:   &http.Client{Timeout: 10 * time.Second},
		url:      cfg.CentralBank.URL,
		cacheTTL: time.Duration(cfg.CentralBank.CacheTTL) * time.Hour,
	}
}

// DefaultInterestRate возвращает процентную ставку по умолчанию:
// ключевая ставка центрального банка плюс маржа, либо 18.5,
// если фид недоступен.
func (s *RateService) DefaultInterestRate() float64 {
	rate, err := s.KeyRate()
	if err != nil {
		utils.LogError("Не удалось получить ключевую ставку: %v", err)
		return defaultInterestRate
	}

	result := rate + rateMargin
	if result < 0 {
		return 0
	}
	if result > 100 {
		return 100
	}
	return result
}

// KeyRate возвращает ключевую ставку центрального банка (кешируется)
func (s *RateService) KeyRate() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.cacheTTL {
		return s.cached, nil
	}

	rate, err := s.fetchKeyRate()
	if err != nil {
		// Возвращаем устаревшее значение, если оно есть
		if !s.fetchedAt.IsZero() {
			return s.cached, nil
		}
		return 0, err
	}

	s.cached = rate
	s.fetchedAt = time.Now()
	return rate, nil
}

// fetchKeyRate загружает и разбирает XML-фид
func (s *RateService) fetchKeyRate() (float64, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.New("фид центрального банка вернул статус " + resp.Status)
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return 0, err
	}

	// Ищем элемент с ключевой ставкой
	el := doc.FindElement("//KeyRate")
	if el == nil {
		el = doc.FindElement("//Rate")
	}
	if el == nil {
		return 0, errors.New("элемент ставки не найден в фиде")
	}

	return parseRate(el.Text())
}

// parseRate разбирает ставку с десятичной запятой или точкой
func parseRate(text string) (float64, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	rate, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errors.New("неверный формат ставки: " + text)
	}
	if rate < 0 || rate > 100 {
		return 0, errors.New("ставка вне допустимого диапазона: " + text)
	}
	return rate, nil
}

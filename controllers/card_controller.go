package controllers

import (
	"cardspend/config"
	"cardspend/database"
	"cardspend/services"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// CardController обрабатывает запросы, связанные с кредитными картами
type CardController struct {
	cardService *services.CardService
}

// NewCardController создает новый экземпляр CardController
func NewCardController(db *database.Database, cfg *config.Config, email *services.EmailService, rates *services.RateService) *CardController {
	return &CardController{
		cardService: services.NewCardService(db.DB, cfg, email, rates),
	}
}

// CardService возвращает сервис карт для совместного использования
func (c *CardController) CardService() *services.CardService {
	return c.cardService
}

// CreateCard обрабатывает запрос на регистрацию карты
func (c *CardController) CreateCard(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreateCardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Устанавливаем ID пользователя
	dto.UserID = userID

	// Создаем карту
	card, err := c.cardService.CreateCard(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusCreated, card)
}

// GetCards обрабатывает запрос на получение списка карт пользователя
func (c *CardController) GetCards(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Получаем список карт
	cards, err := c.cardService.GetAllByUserID(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, cards)
}

// GetCard обрабатывает запрос на получение информации о карте
func (c *CardController) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := c.userAndCardID(w, r)
	if !ok {
		return
	}

	card, err := c.cardService.GetCardResponse(userID, cardID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stats, err := c.cardService.GetStats(userID, cardID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ вместе со статистикой
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"card":  card,
		"stats": stats,
	})
}

// UpdateCard обрабатывает запрос на обновление карты
func (c *CardController) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := c.userAndCardID(w, r)
	if !ok {
		return
	}

	// Создаем DTO для запроса
	var dto services.UpdateCardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Обновляем карту
	card, err := c.cardService.UpdateCard(userID, cardID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, card)
}

// DeleteCard обрабатывает запрос на деактивацию карты
func (c *CardController) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := c.userAndCardID(w, r)
	if !ok {
		return
	}

	// Деактивируем карту
	if err := c.cardService.DeactivateCard(userID, cardID); err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Card deactivated",
	})
}

// MakePayment обрабатывает запрос на платеж по карте
func (c *CardController) MakePayment(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := c.userAndCardID(w, r)
	if !ok {
		return
	}

	// Создаем DTO для запроса
	var dto services.PayCardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dto.UserID = userID
	dto.CardID = cardID

	// Проводим платеж
	card, err := c.cardService.MakePayment(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, card)
}

// GetStats обрабатывает запрос на получение статистики по карте
func (c *CardController) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := c.userAndCardID(w, r)
	if !ok {
		return
	}

	stats, err := c.cardService.GetStats(userID, cardID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, stats)
}

// GetTransactions обрабатывает запрос на получение журнала операций
func (c *CardController) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := c.userAndCardID(w, r)
	if !ok {
		return
	}

	transactions, err := c.cardService.GetTransactions(userID, cardID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, transactions)
}

// userAndCardID извлекает ID пользователя из контекста и ID карты из URL
func (c *CardController) userAndCardID(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	vars := mux.Vars(r)
	cardID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return 0, 0, false
	}

	return userID, uint(cardID), true
}

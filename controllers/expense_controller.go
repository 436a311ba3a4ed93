package controllers

import (
	"cardspend/services"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// ExpenseController обрабатывает запросы, связанные с расходами
type ExpenseController struct {
	expenseService *services.ExpenseService
}

// NewExpenseController создает новый экземпляр ExpenseController
func NewExpenseController(expenseService *services.ExpenseService) *ExpenseController {
	return &ExpenseController{
		expenseService: expenseService,
	}
}

// CreateExpense обрабатывает запрос на создание расхода
func (c *ExpenseController) CreateExpense(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Создаем DTO для запроса
	var dto services.CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Устанавливаем ID пользователя
	dto.UserID = userID

	// Создаем расход и списываем сумму с карты
	result, err := c.expenseService.CreateExpense(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusCreated, result)
}

// GetExpenses обрабатывает запрос на получение списка расходов
// с фильтрацией и пагинацией
func (c *ExpenseController) GetExpenses(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Разбираем параметры фильтрации
	filter, err := parseExpenseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Получаем страницу расходов
	result, err := c.expenseService.ListExpenses(userID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, result)
}

// GetExpense обрабатывает запрос на получение расхода
func (c *ExpenseController) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, expenseID, ok := c.userAndExpenseID(w, r)
	if !ok {
		return
	}

	expense, err := c.expenseService.GetExpense(userID, expenseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, expense)
}

// UpdateExpense обрабатывает запрос на обновление расхода
func (c *ExpenseController) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, expenseID, ok := c.userAndExpenseID(w, r)
	if !ok {
		return
	}

	// Создаем DTO для запроса
	var dto services.UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Обновляем расход и корректируем баланс карты
	result, err := c.expenseService.UpdateExpense(userID, expenseID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, result)
}

// DeleteExpense обрабатывает запрос на удаление расхода
func (c *ExpenseController) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, expenseID, ok := c.userAndExpenseID(w, r)
	if !ok {
		return
	}

	// Удаляем расход и возвращаем сумму на карту
	updatedCard, err := c.expenseService.DeleteExpense(userID, expenseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Expense deleted",
		"updatedCard": updatedCard,
	})
}

// GetByCategory обрабатывает запрос на получение расходов одной категории
func (c *ExpenseController) GetByCategory(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Получаем категорию из URL
	vars := mux.Vars(r)
	category := vars["category"]

	result, err := c.expenseService.ListByCategory(userID, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, result)
}

// GetRecent обрабатывает запрос на получение последних расходов
func (c *ExpenseController) GetRecent(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Получаем лимит из URL, по умолчанию 10
	limit := 10
	if v := mux.Vars(r)["limit"]; v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	expenses, err := c.expenseService.RecentExpenses(userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, expenses)
}

// userAndExpenseID извлекает ID пользователя из контекста и ID расхода из URL
func (c *ExpenseController) userAndExpenseID(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	vars := mux.Vars(r)
	expenseID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return 0, 0, false
	}

	return userID, uint(expenseID), true
}

// parseExpenseFilter разбирает параметры фильтрации из query-строки
func parseExpenseFilter(r *http.Request) (services.ExpenseFilter, error) {
	q := r.URL.Query()
	filter := services.ExpenseFilter{
		Category:  q.Get("category"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if v := q.Get("cardId"); v != "" {
		cardID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, err
		}
		filter.CardID = uint(cardID)
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if v := q.Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &t
	}

	return filter, nil
}

// parseDate разбирает дату в формате RFC3339 или YYYY-MM-DD
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

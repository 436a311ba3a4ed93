package controllers

import (
	"cardspend/services"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// AnalyticsController обрабатывает запросы аналитики расходов
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsController создает новый экземпляр AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// GetDashboard обрабатывает запрос на сводку для главного экрана
func (c *AnalyticsController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard, err := c.analyticsService.Dashboard(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, dashboard)
}

// GetMonthlyReport обрабатывает запрос на отчет за месяц
func (c *AnalyticsController) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Получаем год и месяц из URL
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "Invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil {
		http.Error(w, "Invalid month", http.StatusBadRequest)
		return
	}

	report, err := c.analyticsService.MonthlyReport(userID, year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, report)
}

// GetInsights обрабатывает запрос на рекомендации по расходам
func (c *AnalyticsController) GetInsights(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	insights, err := c.analyticsService.Insights(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, insights)
}

// GetCategoryComparison обрабатывает запрос на динамику расходов
// по категориям за несколько месяцев
func (c *AnalyticsController) GetCategoryComparison(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Количество месяцев, по умолчанию 6
	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid months", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	comparison, err := c.analyticsService.CategoryComparison(userID, months)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отправляем ответ
	writeJSON(w, http.StatusOK, comparison)
}

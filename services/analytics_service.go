package services

import (
	"cardspend/models"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"
)

// CategoryTotalDTO представляет итог по категории
type CategoryTotalDTO struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CardTotalDTO представляет итог по карте
type CardTotalDTO struct {
	CardID   uint    `json:"cardId"`
	CardName string  `json:"cardName"`
	Color    string  `json:"color"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// MonthTotalDTO представляет итог за месяц
type MonthTotalDTO struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// DayTotalDTO представляет итог за день месяца
type DayTotalDTO struct {
	Day   int     `json:"day"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// DashboardDTO представляет сводку для главного экрана
type DashboardDTO struct {
	MonthTotal        float64              `json:"monthTotal"`
	MonthCount        int                  `json:"monthCount"`
	CategoryBreakdown []CategoryTotalDTO   `json:"categoryBreakdown"`
	TopExpenses       []ExpenseResponseDTO `json:"topExpenses"`
	CardTotals        []CardTotalDTO       `json:"cardTotals"`
	MonthlyTrend      []MonthTotalDTO      `json:"monthlyTrend"`
}

// MonthlyReportDTO представляет отчет за месяц
type MonthlyReportDTO struct {
	Year             int                  `json:"year"`
	Month            int                  `json:"month"`
	Total            float64              `json:"total"`
	Count            int                  `json:"count"`
	CategoryAnalysis []CategoryTotalDTO   `json:"categoryAnalysis"`
	CardAnalysis     []CardTotalDTO       `json:"cardAnalysis"`
	DailyBreakdown   []DayTotalDTO        `json:"dailyBreakdown"`
	LatestExpenses   []ExpenseResponseDTO `json:"latestExpenses"`
}

// InsightDTO представляет рекомендацию по расходам
type InsightDTO struct {
	Type             string  `json:"type"`
	Message          string  `json:"message"`
	PotentialSavings float64 `json:"potentialSavings,omitempty"`
}

// CategoryComparisonDTO представляет динамику категории по месяцам
type CategoryComparisonDTO struct {
	Category string          `json:"category"`
	Months   []MonthTotalDTO `json:"months"`
	Total    float64         `json:"total"`
}

// AnalyticsService строит агрегаты по расходам пользователя.
// Сервис только читает данные, балансы карт не изменяются.
type AnalyticsService struct {
	db       *gorm.DB
	expenses *ExpenseService
}

// NewAnalyticsService создает новый экземпляр AnalyticsService
func NewAnalyticsService(db *gorm.DB, expenses *ExpenseService) *AnalyticsService {
	return &AnalyticsService{db: db, expenses: expenses}
}

type categoryRow struct {
	Category string
	Total    float64
	Count    int
}

type cardRow struct {
	CardID   uint
	CardName string
	Color    string
	Total    float64
	Count    int
}

// monthRange возвращает границы месяца [start, end)
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Dashboard возвращает сводку за текущий месяц и тренд за полгода
func (s *AnalyticsService) Dashboard(userID uint) (*DashboardDTO, error) {
	now := time.Now().UTC()
	start, end := monthRange(now.Year(), now.Month())

	var monthTotal struct {
		Total float64
		Count int
	}
	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&monthTotal).Error; err != nil {
		return nil, errors.New("ошибка при подсчете расходов за месяц")
	}

	categories, err := s.categoryTotals(userID, start, end, monthTotal.Total)
	if err != nil {
		return nil, err
	}

	// Пять самых крупных расходов месяца
	var top []models.Expense
	if err := s.db.Preload("Card").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("amount DESC").
		Limit(5).
		Find(&top).Error; err != nil {
		return nil, errors.New("ошибка при получении крупнейших расходов")
	}
	topDTO := make([]ExpenseResponseDTO, 0, len(top))
	for i := range top {
		topDTO = append(topDTO, *s.expenses.expenseToResponseDTO(&top[i], true))
	}

	cards, err := s.cardTotals(userID, start, end)
	if err != nil {
		return nil, err
	}

	trend, err := s.monthlyTrend(userID, 6)
	if err != nil {
		return nil, err
	}

	return &DashboardDTO{
		MonthTotal:        monthTotal.Total,
		MonthCount:        monthTotal.Count,
		CategoryBreakdown: categories,
		TopExpenses:       topDTO,
		CardTotals:        cards,
		MonthlyTrend:      trend,
	}, nil
}

// MonthlyReport возвращает детальный отчет за указанный месяц
func (s *AnalyticsService) MonthlyReport(userID uint, year, month int) (*MonthlyReportDTO, error) {
	if month < 1 || month > 12 {
		return nil, NewValidationError("месяц должен быть от 1 до 12")
	}
	if year < 2000 || year > 2100 {
		return nil, NewValidationError("недопустимый год")
	}

	start, end := monthRange(year, time.Month(month))

	var total struct {
		Total float64
		Count int
	}
	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&total).Error; err != nil {
		return nil, errors.New("ошибка при подсчете расходов за месяц")
	}

	categories, err := s.categoryTotals(userID, start, end, total.Total)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardTotals(userID, start, end)
	if err != nil {
		return nil, err
	}

	// Разбивка по дням месяца
	var monthExpenses []models.Expense
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&monthExpenses).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов за месяц")
	}
	byDay := make(map[int]*DayTotalDTO)
	for i := range monthExpenses {
		day := monthExpenses[i].Date.UTC().Day()
		if byDay[day] == nil {
			byDay[day] = &DayTotalDTO{Day: day}
		}
		byDay[day].Total += monthExpenses[i].Amount
		byDay[day].Count++
	}
	daily := make([]DayTotalDTO, 0, len(byDay))
	for _, d := range byDay {
		daily = append(daily, *d)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Day < daily[j].Day })

	// Последние 20 расходов месяца
	var latest []models.Expense
	if err := s.db.Preload("Card").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC").
		Limit(20).
		Find(&latest).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов за месяц")
	}
	latestDTO := make([]ExpenseResponseDTO, 0, len(latest))
	for i := range latest {
		latestDTO = append(latestDTO, *s.expenses.expenseToResponseDTO(&latest[i], true))
	}

	return &MonthlyReportDTO{
		Year:             year,
		Month:            month,
		Total:            total.Total,
		Count:            total.Count,
		CategoryAnalysis: categories,
		CardAnalysis:     cards,
		DailyBreakdown:   daily,
		LatestExpenses:   latestDTO,
	}, nil
}

// Insights возвращает рекомендации на основе расходов
// за последние три месяца
func (s *AnalyticsService) Insights(userID uint) ([]InsightDTO, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -3, 0)

	var rows []categoryRow
	if err := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ?", userID, start).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, errors.New("ошибка при подсчете расходов по категориям")
	}

	insights := make([]InsightDTO, 0)

	// Категории со средними расходами выше 200 в месяц
	for _, row := range rows {
		monthlyAvg := row.Total / 3
		if monthlyAvg > 200 {
			insights = append(insights, InsightDTO{
				Type: "category",
				Message: fmt.Sprintf("Расходы в категории %q в среднем %.2f в месяц. Сокращение на 20%% сэкономит %.2f в месяц.",
					row.Category, monthlyAvg, monthlyAvg*0.2),
				PotentialSavings: math.Round(monthlyAvg*0.2*100) / 100,
			})
		}
	}

	// Карты с использованием лимита выше 70%
	var cards []models.CreditCard
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&cards).Error; err != nil {
		return nil, errors.New("ошибка при получении карт")
	}
	for i := range cards {
		if u := cards[i].Utilization(); u > 70 {
			insights = append(insights, InsightDTO{
				Type: "utilization",
				Message: fmt.Sprintf("Карта %q использована на %.1f%% лимита. Высокое использование увеличивает процентные платежи.",
					cards[i].CardName, u),
			})
		}
	}

	// Необязательные расходы
	var nonEssential struct {
		Total float64
	}
	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND is_essential = ?", userID, start, false).
		Scan(&nonEssential).Error; err != nil {
		return nil, errors.New("ошибка при подсчете необязательных расходов")
	}
	if nonEssential.Total > 0 {
		monthlyAvg := nonEssential.Total / 3
		insights = append(insights, InsightDTO{
			Type: "essential",
			Message: fmt.Sprintf("Необязательные расходы составляют в среднем %.2f в месяц. Сокращение на 30%% сэкономит %.2f в месяц.",
				monthlyAvg, monthlyAvg*0.3),
			PotentialSavings: math.Round(monthlyAvg*0.3*100) / 100,
		})
	}

	return insights, nil
}

// CategoryComparison возвращает динамику расходов по категориям
// за последние months месяцев
func (s *AnalyticsService) CategoryComparison(userID uint, months int) ([]CategoryComparisonDTO, error) {
	if months < 1 || months > 24 {
		months = 6
	}

	now := time.Now().UTC()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND date >= ?", userID, firstMonth).
		Find(&expenses).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов")
	}

	type monthKey struct {
		category string
		month    string
	}
	totals := make(map[monthKey]*MonthTotalDTO)
	categoryTotals := make(map[string]float64)
	for i := range expenses {
		key := monthKey{
			category: string(expenses[i].Category),
			month:    expenses[i].Date.UTC().Format("Jan 2006"),
		}
		if totals[key] == nil {
			totals[key] = &MonthTotalDTO{Month: key.month}
		}
		totals[key].Total += expenses[i].Amount
		totals[key].Count++
		categoryTotals[key.category] += expenses[i].Amount
	}

	// Все месяцы окна в хронологическом порядке, включая пустые
	labels := make([]string, 0, months)
	for i := 0; i < months; i++ {
		labels = append(labels, firstMonth.AddDate(0, i, 0).Format("Jan 2006"))
	}

	result := make([]CategoryComparisonDTO, 0, len(categoryTotals))
	for category, total := range categoryTotals {
		row := CategoryComparisonDTO{Category: category, Total: total}
		for _, label := range labels {
			if t := totals[monthKey{category: category, month: label}]; t != nil {
				row.Months = append(row.Months, *t)
			} else {
				row.Months = append(row.Months, MonthTotalDTO{Month: label})
			}
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Total > result[j].Total })

	return result, nil
}

// categoryTotals возвращает итоги по категориям за период
func (s *AnalyticsService) categoryTotals(userID uint, start, end time.Time, grandTotal float64) ([]CategoryTotalDTO, error) {
	var rows []categoryRow
	if err := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, errors.New("ошибка при подсчете расходов по категориям")
	}

	result := make([]CategoryTotalDTO, 0, len(rows))
	for _, row := range rows {
		percentage := 0.0
		if grandTotal > 0 {
			percentage = math.Round(row.Total/grandTotal*10000) / 100
		}
		result = append(result, CategoryTotalDTO{
			Category:   row.Category,
			Total:      row.Total,
			Count:      row.Count,
			Percentage: percentage,
		})
	}
	return result, nil
}

// cardTotals возвращает итоги по картам за период
func (s *AnalyticsService) cardTotals(userID uint, start, end time.Time) ([]CardTotalDTO, error) {
	var rows []cardRow
	if err := s.db.Model(&models.Expense{}).
		Select("expenses.card_id AS card_id, credit_cards.card_name AS card_name, credit_cards.color AS color, COALESCE(SUM(expenses.amount), 0) AS total, COUNT(*) AS count").
		Joins("JOIN credit_cards ON credit_cards.id = expenses.card_id").
		Where("expenses.user_id = ? AND expenses.date >= ? AND expenses.date < ?", userID, start, end).
		Group("expenses.card_id, credit_cards.card_name, credit_cards.color").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, errors.New("ошибка при подсчете расходов по картам")
	}

	result := make([]CardTotalDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, CardTotalDTO{
			CardID:   row.CardID,
			CardName: row.CardName,
			Color:    row.Color,
			Total:    row.Total,
			Count:    row.Count,
		})
	}
	return result, nil
}

// monthlyTrend возвращает итоги по месяцам за последние months месяцев
func (s *AnalyticsService) monthlyTrend(userID uint, months int) ([]MonthTotalDTO, error) {
	now := time.Now().UTC()
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND date >= ?", userID, firstMonth).
		Find(&expenses).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов")
	}

	byMonth := make(map[string]*MonthTotalDTO)
	for i := range expenses {
		label := expenses[i].Date.UTC().Format("Jan 2006")
		if byMonth[label] == nil {
			byMonth[label] = &MonthTotalDTO{Month: label}
		}
		byMonth[label].Total += expenses[i].Amount
		byMonth[label].Count++
	}

	trend := make([]MonthTotalDTO, 0, months)
	for i := 0; i < months; i++ {
		label := firstMonth.AddDate(0, i, 0).Format("Jan 2006")
		if t := byMonth[label]; t != nil {
			trend = append(trend, *t)
		} else {
			trend = append(trend, MonthTotalDTO{Month: label})
		}
	}
	return trend, nil
}

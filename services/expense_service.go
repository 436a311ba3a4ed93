package services

import (
	"cardspend/models"
	"cardspend/utils"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrExpenseNotFound возвращается, когда расход не существует или не
// принадлежит пользователю
var ErrExpenseNotFound = errors.New("расход не найден")

// Поля, по которым разрешена сортировка списка расходов
var expenseSortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"category":   "category",
	"created_at": "created_at",
}

// CreateExpenseDTO представляет данные для создания расхода
type CreateExpenseDTO struct {
	CardID             uint       `json:"cardId" validate:"required"`
	Amount             float64    `json:"amount" validate:"required,gt=0"`
	Description        string     `json:"description" validate:"required,min=1,max=200"`
	Category           string     `json:"category" validate:"required,category"`
	Subcategory        string     `json:"subcategory" validate:"omitempty,max=100"`
	Merchant           string     `json:"merchant" validate:"omitempty,max=100"`
	Location           string     `json:"location" validate:"omitempty,max=100"`
	Date               *time.Time `json:"date"`
	IsRecurring        bool       `json:"isRecurring"`
	RecurringFrequency string     `json:"recurringFrequency"`
	Tags               []string   `json:"tags"`
	Notes              string     `json:"notes" validate:"omitempty,max=500"`
	ReceiptURL         string     `json:"receiptUrl" validate:"omitempty,max=500"`
	IsEssential        bool       `json:"isEssential"`
	UserID             uint       `json:"-" validate:"required"`
}

// UpdateExpenseDTO представляет данные для частичного обновления расхода.
// Изменяются только переданные поля.
type UpdateExpenseDTO struct {
	Amount             *float64   `json:"amount" validate:"omitempty,gt=0"`
	Description        *string    `json:"description" validate:"omitempty,min=1,max=200"`
	Category           *string    `json:"category" validate:"omitempty,category"`
	Subcategory        *string    `json:"subcategory" validate:"omitempty,max=100"`
	Merchant           *string    `json:"merchant" validate:"omitempty,max=100"`
	Location           *string    `json:"location" validate:"omitempty,max=100"`
	Date               *time.Time `json:"date"`
	IsRecurring        *bool      `json:"isRecurring"`
	RecurringFrequency *string    `json:"recurringFrequency"`
	Tags               []string   `json:"tags"`
	Notes              *string    `json:"notes" validate:"omitempty,max=500"`
	ReceiptURL         *string    `json:"receiptUrl" validate:"omitempty,max=500"`
	IsEssential        *bool      `json:"isEssential"`
}

// ExpenseFilter представляет фильтры и пагинацию списка расходов
type ExpenseFilter struct {
	Category  string
	CardID    uint
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ExpenseResponseDTO представляет расход для ответа
type ExpenseResponseDTO struct {
	ID                 uint            `json:"id"`
	Amount             float64         `json:"amount"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Subcategory        string          `json:"subcategory,omitempty"`
	Merchant           string          `json:"merchant,omitempty"`
	Location           string          `json:"location,omitempty"`
	Date               time.Time       `json:"date"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringFrequency string          `json:"recurringFrequency,omitempty"`
	Tags               []string        `json:"tags"`
	Notes              string          `json:"notes,omitempty"`
	ReceiptURL         string          `json:"receiptUrl,omitempty"`
	IsEssential        bool            `json:"isEssential"`
	Card               *CardSummaryDTO `json:"card,omitempty"`
	CreatedAt          string          `json:"createdAt"`
	UpdatedAt          string          `json:"updatedAt"`
}

// UpdatedCardDTO представляет новое состояние карты после операции
type UpdatedCardDTO struct {
	ID              uint    `json:"id"`
	CurrentBalance  float64 `json:"currentBalance"`
	AvailableCredit float64 `json:"availableCredit"`
}

// ExpenseMutationResult представляет результат операции,
// изменившей расход и баланс карты
type ExpenseMutationResult struct {
	Expense     *ExpenseResponseDTO `json:"expense"`
	UpdatedCard UpdatedCardDTO      `json:"updatedCard"`
}

// PaginationDTO представляет данные пагинации
type PaginationDTO struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalExpenses int64 `json:"totalExpenses"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
}

// ExpenseListDTO представляет страницу списка расходов
type ExpenseListDTO struct {
	Expenses   []ExpenseResponseDTO `json:"expenses"`
	Pagination PaginationDTO        `json:"pagination"`
}

// CategoryExpensesDTO представляет расходы одной категории
type CategoryExpensesDTO struct {
	Expenses    []ExpenseResponseDTO `json:"expenses"`
	TotalAmount float64              `json:"totalAmount"`
	Count       int                  `json:"count"`
}

// ExpenseService синхронизирует расходы с балансами карт.
// Каждая операция выполняется в одной транзакции БД: запись расхода,
// изменение баланса и запись журнала либо фиксируются вместе,
// либо откатываются вместе.
type ExpenseService struct {
	db        *gorm.DB
	cards     *CardService
	validator *validator.Validate
}

// NewExpenseService создает новый экземпляр ExpenseService
func NewExpenseService(db *gorm.DB, cards *CardService) *ExpenseService {
	return &ExpenseService{
		db:        db,
		cards:     cards,
		validator: newValidator(),
	}
}

// Порог использования лимита, после которого отправляется предупреждение
const highUtilizationThreshold = 70.0

// crossedHighUtilization сообщает, перешла ли карта порог высокого
// использования лимита в результате операции
func crossedHighUtilization(before, after *models.CreditCard) bool {
	return after.Utilization() > highUtilizationThreshold &&
		before.Utilization() <= highUtilizationThreshold
}

// CreateExpense создает расход и списывает его сумму с карты.
// Списание с недостаточным доступным кредитом отклоняется целиком:
// расход не сохраняется, баланс не изменяется.
func (s *ExpenseService) CreateExpense(dto CreateExpenseDTO) (*ExpenseMutationResult, error) {
	start := time.Now()

	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}
	if dto.IsRecurring && !models.IsValidFrequency(dto.RecurringFrequency) {
		return nil, NewValidationError("для повторяющегося расхода требуется периодичность: weekly, monthly или yearly")
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем активную карту пользователя
	var card models.CreditCard
	if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", dto.CardID, dto.UserID, true).
		First(&card).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, errors.New("ошибка при поиске карты")
	}

	// Атомарное условное списание: баланс увеличивается только если
	// доступного кредита хватает. Проверка и запись выполняются одним
	// оператором, поэтому конкурирующие списания не превысят лимит.
	now := time.Now()
	res := tx.Model(&models.CreditCard{}).
		Where("id = ? AND is_active = ? AND credit_limit - current_balance >= ?", card.ID, true, dto.Amount).
		Updates(map[string]interface{}{
			"current_balance":  gorm.Expr("current_balance + ?", dto.Amount),
			"available_credit": gorm.Expr("credit_limit - current_balance - ?", dto.Amount),
			"last_used":        now,
			"updated_at":       now,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении баланса")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		// Перечитываем карту, чтобы сообщить актуальный доступный кредит
		available := card.AvailableCredit
		var fresh models.CreditCard
		if err := s.db.First(&fresh, card.ID).Error; err == nil {
			available = fresh.AvailableCredit
		}
		utils.GetMetrics().RecordLedgerOperation("charge", models.ErrInsufficientCredit)
		return nil, &InsufficientCreditError{Available: available}
	}

	// Сохраняем расход
	expense := &models.Expense{
		UserID:             dto.UserID,
		CardID:             dto.CardID,
		Amount:             dto.Amount,
		Description:        dto.Description,
		Category:           models.ExpenseCategory(dto.Category),
		Subcategory:        dto.Subcategory,
		Merchant:           dto.Merchant,
		Location:           dto.Location,
		IsRecurring:        dto.IsRecurring,
		RecurringFrequency: models.RecurringFrequency(dto.RecurringFrequency),
		Notes:              dto.Notes,
		ReceiptURL:         dto.ReceiptURL,
		IsEssential:        dto.IsEssential,
	}
	if dto.Date != nil {
		expense.Date = *dto.Date
	}
	expense.SetTags(dto.Tags)

	if err := tx.Create(expense).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("не удалось создать расход")
	}

	// Перечитываем карту внутри транзакции для записи журнала
	var updated models.CreditCard
	if err := tx.First(&updated, card.ID).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при чтении баланса")
	}

	// Фиксируем списание в журнале операций
	entry := &models.CardTransaction{
		CardID:        card.ID,
		ExpenseID:     &expense.ID,
		Amount:        dto.Amount,
		Type:          models.CardTransactionCharge,
		BalanceBefore: updated.CurrentBalance - dto.Amount,
		BalanceAfter:  updated.CurrentBalance,
		Description:   dto.Description,
	}
	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при сохранении записи журнала")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	// Предупреждаем о высоком использовании лимита,
	// ошибка отправки не прерывает операцию
	if s.cards != nil && s.cards.email != nil && crossedHighUtilization(&card, &updated) {
		var user models.User
		if err := s.db.First(&user, dto.UserID).Error; err == nil && user.Email != "" {
			if err := s.cards.email.SendHighUtilizationNotification(user.Email, updated.CardName, updated.Utilization()); err != nil {
				utils.LogError("Ошибка отправки предупреждения об использовании лимита: %v", err)
			}
		}
	}

	utils.GetMetrics().RecordLedgerOperation("charge", nil)
	utils.LogOperation("expense.create", start, nil)

	expense.Card = updated
	return &ExpenseMutationResult{
		Expense: s.expenseToResponseDTO(expense, true),
		UpdatedCard: UpdatedCardDTO{
			ID:              updated.ID,
			CurrentBalance:  updated.CurrentBalance,
			AvailableCredit: updated.AvailableCredit,
		},
	}, nil
}

// UpdateExpense частично обновляет расход. Если изменилась сумма,
// баланс карты корректируется на разницу в той же транзакции.
func (s *ExpenseService) UpdateExpense(userID, expenseID uint, dto UpdateExpenseDTO) (*ExpenseMutationResult, error) {
	start := time.Now()

	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем расход пользователя
	var expense models.Expense
	if err := tx.Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, errors.New("ошибка при поиске расхода")
	}

	// Разница между новой и старой суммой
	var delta float64
	if dto.Amount != nil {
		delta = *dto.Amount - expense.Amount
	}

	if delta != 0 {
		// Атомарная условная корректировка: увеличение проверяет
		// доступный кредит, уменьшение не дает балансу уйти ниже нуля
		query := tx.Model(&models.CreditCard{})
		if delta > 0 {
			query = query.Where("id = ? AND credit_limit - current_balance >= ?", expense.CardID, delta)
		} else {
			query = query.Where("id = ? AND current_balance + ? >= 0", expense.CardID, delta)
		}
		res := query.Updates(map[string]interface{}{
			"current_balance":  gorm.Expr("current_balance + ?", delta),
			"available_credit": gorm.Expr("credit_limit - current_balance - ?", delta),
			"updated_at":       time.Now(),
		})
		if res.Error != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при обновлении баланса")
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			if delta > 0 {
				var card models.CreditCard
				available := 0.0
				if err := s.db.First(&card, expense.CardID).Error; err == nil {
					available = card.AvailableCredit
				}
				utils.GetMetrics().RecordLedgerOperation("adjustment", models.ErrInsufficientCredit)
				return nil, &InsufficientCreditError{Available: available}
			}
			utils.GetMetrics().RecordLedgerOperation("adjustment", models.ErrNegativeBalance)
			return nil, models.ErrNegativeBalance
		}
	}

	// Применяем переданные поля
	if dto.Amount != nil {
		expense.Amount = *dto.Amount
	}
	if dto.Description != nil {
		expense.Description = *dto.Description
	}
	if dto.Category != nil {
		expense.Category = models.ExpenseCategory(*dto.Category)
	}
	if dto.Subcategory != nil {
		expense.Subcategory = *dto.Subcategory
	}
	if dto.Merchant != nil {
		expense.Merchant = *dto.Merchant
	}
	if dto.Location != nil {
		expense.Location = *dto.Location
	}
	if dto.Date != nil {
		expense.Date = *dto.Date
	}
	if dto.IsRecurring != nil {
		expense.IsRecurring = *dto.IsRecurring
	}
	if dto.RecurringFrequency != nil {
		expense.RecurringFrequency = models.RecurringFrequency(*dto.RecurringFrequency)
	}
	if dto.Tags != nil {
		expense.SetTags(dto.Tags)
	}
	if dto.Notes != nil {
		expense.Notes = *dto.Notes
	}
	if dto.ReceiptURL != nil {
		expense.ReceiptURL = *dto.ReceiptURL
	}
	if dto.IsEssential != nil {
		expense.IsEssential = *dto.IsEssential
	}
	if expense.IsRecurring && !models.IsValidFrequency(string(expense.RecurringFrequency)) {
		tx.Rollback()
		return nil, NewValidationError("для повторяющегося расхода требуется периодичность: weekly, monthly или yearly")
	}
	expense.UpdatedAt = time.Now()

	if err := tx.Save(&expense).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении расхода")
	}

	// Перечитываем карту внутри транзакции
	var card models.CreditCard
	if err := tx.First(&card, expense.CardID).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при чтении баланса")
	}

	// Корректировка фиксируется в журнале операций
	if delta != 0 {
		entry := &models.CardTransaction{
			CardID:        card.ID,
			ExpenseID:     &expense.ID,
			Amount:        delta,
			Type:          models.CardTransactionAdjustment,
			BalanceBefore: card.CurrentBalance - delta,
			BalanceAfter:  card.CurrentBalance,
			Description:   "Expense amount changed",
		}
		if err := tx.Create(entry).Error; err != nil {
			tx.Rollback()
			return nil, errors.New("ошибка при сохранении записи журнала")
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	if delta != 0 {
		utils.GetMetrics().RecordLedgerOperation("adjustment", nil)
	}
	utils.LogOperation("expense.update", start, nil)

	expense.Card = card
	return &ExpenseMutationResult{
		Expense: s.expenseToResponseDTO(&expense, true),
		UpdatedCard: UpdatedCardDTO{
			ID:              card.ID,
			CurrentBalance:  card.CurrentBalance,
			AvailableCredit: card.AvailableCredit,
		},
	}, nil
}

// DeleteExpense удаляет расход и возвращает его сумму на карту.
// Повторное удаление возвращает ErrExpenseNotFound.
func (s *ExpenseService) DeleteExpense(userID, expenseID uint) (*UpdatedCardDTO, error) {
	start := time.Now()

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Получаем расход пользователя
	var expense models.Expense
	if err := tx.Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, errors.New("ошибка при поиске расхода")
	}

	// Атомарный условный возврат: баланс не может уйти ниже нуля
	res := tx.Model(&models.CreditCard{}).
		Where("id = ? AND current_balance >= ?", expense.CardID, expense.Amount).
		Updates(map[string]interface{}{
			"current_balance":  gorm.Expr("current_balance - ?", expense.Amount),
			"available_credit": gorm.Expr("credit_limit - current_balance + ?", expense.Amount),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении баланса")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		utils.GetMetrics().RecordLedgerOperation("refund", models.ErrNegativeBalance)
		return nil, models.ErrNegativeBalance
	}

	// Удаляем расход
	if err := tx.Delete(&expense).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при удалении расхода")
	}

	// Перечитываем карту внутри транзакции
	var card models.CreditCard
	if err := tx.First(&card, expense.CardID).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при чтении баланса")
	}

	// Фиксируем возврат в журнале операций
	entry := &models.CardTransaction{
		CardID:        card.ID,
		ExpenseID:     &expense.ID,
		Amount:        -expense.Amount,
		Type:          models.CardTransactionRefund,
		BalanceBefore: card.CurrentBalance + expense.Amount,
		BalanceAfter:  card.CurrentBalance,
		Description:   expense.Description,
	}
	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при сохранении записи журнала")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	utils.GetMetrics().RecordLedgerOperation("refund", nil)
	utils.LogOperation("expense.delete", start, nil)

	return &UpdatedCardDTO{
		ID:              card.ID,
		CurrentBalance:  card.CurrentBalance,
		AvailableCredit: card.AvailableCredit,
	}, nil
}

// ListExpenses возвращает страницу расходов пользователя
// с фильтрацией и сортировкой
func (s *ExpenseService) ListExpenses(userID uint, filter ExpenseFilter) (*ExpenseListDTO, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.CardID != 0 {
		query = query.Where("card_id = ?", filter.CardID)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.New("ошибка при подсчете расходов")
	}

	// Сортировка только по разрешенным полям
	column, ok := expenseSortColumns[filter.SortBy]
	if !ok {
		column = "date"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	var expenses []models.Expense
	if err := query.Preload("Card").
		Order(column + " " + order).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&expenses).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов")
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	response := make([]ExpenseResponseDTO, 0, len(expenses))
	for i := range expenses {
		response = append(response, *s.expenseToResponseDTO(&expenses[i], true))
	}

	return &ExpenseListDTO{
		Expenses: response,
		Pagination: PaginationDTO{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalExpenses: total,
			HasNext:       page < totalPages,
			HasPrev:       page > 1,
		},
	}, nil
}

// GetExpense возвращает расход пользователя по ID
func (s *ExpenseService) GetExpense(userID, expenseID uint) (*ExpenseResponseDTO, error) {
	var expense models.Expense
	if err := s.db.Preload("Card").
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, errors.New("ошибка при поиске расхода")
	}
	return s.expenseToResponseDTO(&expense, true), nil
}

// ListByCategory возвращает расходы пользователя одной категории
// с общей суммой
func (s *ExpenseService) ListByCategory(userID uint, category string) (*CategoryExpensesDTO, error) {
	if !models.IsValidCategory(category) {
		return nil, NewValidationError("недопустимая категория расхода")
	}

	var expenses []models.Expense
	if err := s.db.Preload("Card").
		Where("user_id = ? AND category = ?", userID, category).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов")
	}

	var totalAmount float64
	response := make([]ExpenseResponseDTO, 0, len(expenses))
	for i := range expenses {
		totalAmount += expenses[i].Amount
		response = append(response, *s.expenseToResponseDTO(&expenses[i], true))
	}

	return &CategoryExpensesDTO{
		Expenses:    response,
		TotalAmount: totalAmount,
		Count:       len(expenses),
	}, nil
}

// RecentExpenses возвращает последние расходы пользователя
func (s *ExpenseService) RecentExpenses(userID uint, limit int) ([]ExpenseResponseDTO, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var expenses []models.Expense
	if err := s.db.Preload("Card").
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, errors.New("ошибка при получении расходов")
	}

	response := make([]ExpenseResponseDTO, 0, len(expenses))
	for i := range expenses {
		response = append(response, *s.expenseToResponseDTO(&expenses[i], true))
	}
	return response, nil
}

// expenseToResponseDTO конвертирует модель расхода в DTO для ответа
func (s *ExpenseService) expenseToResponseDTO(expense *models.Expense, withCard bool) *ExpenseResponseDTO {
	dto := &ExpenseResponseDTO{
		ID:                 expense.ID,
		Amount:             expense.Amount,
		Description:        expense.Description,
		Category:           string(expense.Category),
		Subcategory:        expense.Subcategory,
		Merchant:           expense.Merchant,
		Location:           expense.Location,
		Date:               expense.Date,
		IsRecurring:        expense.IsRecurring,
		RecurringFrequency: string(expense.RecurringFrequency),
		Tags:               expense.TagList(),
		Notes:              expense.Notes,
		ReceiptURL:         expense.ReceiptURL,
		IsEssential:        expense.IsEssential,
		CreatedAt:          expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          expense.UpdatedAt.Format(time.RFC3339),
	}
	if withCard && expense.Card.ID != 0 {
		summary := s.cards.CardSummary(&expense.Card)
		dto.Card = &summary
	}
	return dto
}

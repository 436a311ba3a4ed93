package services

import (
	"cardspend/models"
	"cardspend/utils"
	"errors"
	"time"

	"gorm.io/gorm"
)

// RecurringService материализует повторяющиеся расходы: когда дата
// шаблона наступает, создается обычный расход с таким же списанием
// с карты, а дата шаблона сдвигается на следующий период.
type RecurringService struct {
	db     *gorm.DB
	email  *EmailService
	ticker *time.Ticker
	stop   chan struct{}
}

// skippedCharge описывает пропущенное списание для уведомления
type skippedCharge struct {
	email       string
	description string
	amount      float64
}

// NewRecurringService создает новый экземпляр RecurringService
func NewRecurringService(db *gorm.DB, email *EmailService) *RecurringService {
	return &RecurringService{
		db:    db,
		email: email,
		stop:  make(chan struct{}),
	}
}

// Start запускает обработку повторяющихся расходов каждый час
func (s *RecurringService) Start() {
	s.ticker = time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				if err := s.ProcessDueExpenses(); err != nil {
					utils.LogError("Ошибка при обработке повторяющихся расходов: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop останавливает планировщик
func (s *RecurringService) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stop)
}

// ProcessDueExpenses обрабатывает шаблоны, дата которых наступила
func (s *RecurringService) ProcessDueExpenses() error {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.New("ошибка при начале транзакции")
	}

	// Получаем все шаблоны с наступившей датой
	var templates []models.Expense
	if err := tx.Where("is_recurring = ? AND date <= ?", true, time.Now()).
		Preload("Card").
		Preload("Card.User").
		Find(&templates).Error; err != nil {
		tx.Rollback()
		return errors.New("ошибка при получении повторяющихся расходов")
	}

	var skipped []skippedCharge
	for i := range templates {
		sk, err := s.processTemplate(tx, &templates[i])
		if err != nil {
			tx.Rollback()
			return err
		}
		if sk != nil {
			skipped = append(skipped, *sk)
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return errors.New("ошибка при подтверждении транзакции")
	}

	// Отправляем уведомления о пропущенных списаниях после фиксации
	for _, sk := range skipped {
		if s.email == nil || sk.email == "" {
			continue
		}
		if err := s.email.SendRecurringChargeSkippedNotification(sk.email, sk.description, sk.amount); err != nil {
			utils.LogError("Ошибка отправки уведомления о пропущенном расходе: %v", err)
		}
	}

	return nil
}

// processTemplate обрабатывает один шаблон повторяющегося расхода
func (s *RecurringService) processTemplate(tx *gorm.DB, template *models.Expense) (*skippedCharge, error) {
	// Дата шаблона сдвигается в любом случае, чтобы неудачное
	// списание не повторялось каждый запуск
	nextDate := template.NextOccurrence(template.Date)

	// Атомарное условное списание с карты шаблона
	now := time.Now()
	res := tx.Model(&models.CreditCard{}).
		Where("id = ? AND is_active = ? AND credit_limit - current_balance >= ?",
			template.CardID, true, template.Amount).
		Updates(map[string]interface{}{
			"current_balance":  gorm.Expr("current_balance + ?", template.Amount),
			"available_credit": gorm.Expr("credit_limit - current_balance - ?", template.Amount),
			"last_used":        now,
			"updated_at":       now,
		})
	if res.Error != nil {
		return nil, errors.New("ошибка при обновлении баланса")
	}

	if res.RowsAffected == 0 {
		// Недостаточно кредита или карта неактивна: списание
		// пропускается, владелец получает уведомление
		utils.LogInfo("Повторяющийся расход %d пропущен: недостаточно кредита на карте %d",
			template.ID, template.CardID)
		template.Date = nextDate
		if err := tx.Save(template).Error; err != nil {
			return nil, errors.New("ошибка при обновлении шаблона")
		}
		return &skippedCharge{
			email:       template.Card.User.Email,
			description: template.Description,
			amount:      template.Amount,
		}, nil
	}

	// Создаем материализованный расход (обычный, не шаблон)
	expense := &models.Expense{
		UserID:      template.UserID,
		CardID:      template.CardID,
		Amount:      template.Amount,
		Description: template.Description,
		Category:    template.Category,
		Subcategory: template.Subcategory,
		Merchant:    template.Merchant,
		Location:    template.Location,
		Date:        template.Date,
		Tags:        template.Tags,
		Notes:       template.Notes,
		IsEssential: template.IsEssential,
	}
	if err := tx.Create(expense).Error; err != nil {
		return nil, errors.New("ошибка при создании расхода")
	}

	// Перечитываем карту внутри транзакции для записи журнала
	var card models.CreditCard
	if err := tx.First(&card, template.CardID).Error; err != nil {
		return nil, errors.New("ошибка при чтении баланса")
	}

	// Фиксируем списание в журнале операций
	entry := &models.CardTransaction{
		CardID:        card.ID,
		ExpenseID:     &expense.ID,
		Amount:        template.Amount,
		Type:          models.CardTransactionCharge,
		BalanceBefore: card.CurrentBalance - template.Amount,
		BalanceAfter:  card.CurrentBalance,
		Description:   template.Description,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, errors.New("ошибка при сохранении записи журнала")
	}

	// Сдвигаем дату шаблона на следующий период
	template.Date = nextDate
	if err := tx.Save(template).Error; err != nil {
		return nil, errors.New("ошибка при обновлении шаблона")
	}

	utils.GetMetrics().RecordLedgerOperation("charge", nil)
	return nil, nil
}

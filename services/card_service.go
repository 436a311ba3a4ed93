package services

import (
	"cardspend/config"
	"cardspend/models"
	"cardspend/utils"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrCardNotFound возвращается, когда карта не существует или не
// принадлежит пользователю. Оба случая неразличимы, чтобы не раскрывать
// чужие идентификаторы.
var ErrCardNotFound = errors.New("кредитная карта не найдена")

// InsufficientCreditError возвращается, когда списание превышает доступный
// кредит. Содержит доступную сумму для отображения клиенту.
type InsufficientCreditError struct {
	Available float64
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("недостаточно доступного кредита: доступно %.2f", e.Available)
}

func (e *InsufficientCreditError) Unwrap() error {
	return models.ErrInsufficientCredit
}

// CreateCardDTO представляет данные для регистрации карты
type CreateCardDTO struct {
	CardName       string   `json:"cardName" validate:"required,min=2,max=100"`
	CardNumber     string   `json:"cardNumber" validate:"required,cardnumber"`
	CardType       string   `json:"cardType" validate:"required,cardtype"`
	ExpiryMonth    int      `json:"expiryMonth" validate:"required,min=1,max=12"`
	ExpiryYear     int      `json:"expiryYear" validate:"required"`
	CreditLimit    float64  `json:"creditLimit" validate:"required,gte=100"`
	CurrentBalance float64  `json:"currentBalance" validate:"gte=0"`
	InterestRate   *float64 `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	Color          string   `json:"color" validate:"omitempty,hexcolor"`
	UserID         uint     `json:"-" validate:"required"`
}

// UpdateCardDTO представляет данные для частичного обновления карты.
// Изменяются только переданные поля.
type UpdateCardDTO struct {
	CardName     *string  `json:"cardName" validate:"omitempty,min=2,max=100"`
	CreditLimit  *float64 `json:"creditLimit" validate:"omitempty,gte=100"`
	InterestRate *float64 `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
	Color        *string  `json:"color" validate:"omitempty,hexcolor"`
}

// PayCardDTO представляет данные платежа по карте
type PayCardDTO struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	CardID uint    `json:"-"`
	UserID uint    `json:"-"`
}

// CardResponseDTO представляет данные карты для ответа
type CardResponseDTO struct {
	ID              uint      `json:"id"`
	CardName        string    `json:"cardName"`
	CardNumber      string    `json:"cardNumber"` // маскированный номер
	CardType        string    `json:"cardType"`
	ExpiryMonth     int       `json:"expiryMonth"`
	ExpiryYear      int       `json:"expiryYear"`
	CreditLimit     float64   `json:"creditLimit"`
	CurrentBalance  float64   `json:"currentBalance"`
	AvailableCredit float64   `json:"availableCredit"`
	InterestRate    float64   `json:"interestRate"`
	IsActive        bool      `json:"isActive"`
	Color           string    `json:"color"`
	LastUsed        time.Time `json:"lastUsed"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// CardSummaryDTO представляет краткие данные карты внутри расхода
type CardSummaryDTO struct {
	ID         uint   `json:"id"`
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"` // маскированный номер
	Color      string `json:"color"`
}

// CardStatsDTO представляет статистику по карте
type CardStatsDTO struct {
	UtilizationRate float64 `json:"utilizationRate"`
	AvailableCredit float64 `json:"availableCredit"`
	MonthlyInterest float64 `json:"monthlyInterest"`
	CreditLimit     float64 `json:"creditLimit"`
	CurrentBalance  float64 `json:"currentBalance"`
	IsOverLimit     bool    `json:"isOverLimit"`
	DaysUntilExpiry int     `json:"daysUntilExpiry"`
}

// CardService предоставляет методы для работы с кредитными картами
type CardService struct {
	db        *gorm.DB
	config    *config.Config
	validator *validator.Validate
	email     *EmailService
	rates     *RateService
}

// NewCardService создает новый экземпляр CardService
func NewCardService(db *gorm.DB, cfg *config.Config, email *EmailService, rates *RateService) *CardService {
	return &CardService{
		db:        db,
		config:    cfg,
		validator: newValidator(),
		email:     email,
		rates:     rates,
	}
}

// CreateCard регистрирует новую карту пользователя
func (s *CardService) CreateCard(dto CreateCardDTO) (*CardResponseDTO, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	// Год истечения не может быть в прошлом
	if dto.ExpiryYear < time.Now().Year() {
		return nil, NewValidationError("год истечения срока действия не может быть в прошлом")
	}

	// Начальный баланс не может превышать лимит
	if dto.CurrentBalance > dto.CreditLimit {
		return nil, NewValidationError("текущий баланс не может превышать кредитный лимит")
	}

	// Нормализуем номер карты (без пробелов)
	number := strings.ReplaceAll(dto.CardNumber, " ", "")
	numberHMAC := utils.GenerateHMAC(number, []byte(s.config.CardHMACKey))

	// Проверяем, нет ли у пользователя карты с таким номером
	var existing models.CreditCard
	if err := s.db.Where("user_id = ? AND number_hmac = ?", dto.UserID, numberHMAC).
		First(&existing).Error; err == nil {
		return nil, NewValidationError("карта с таким номером уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("ошибка при проверке номера карты")
	}

	// Шифруем номер карты, если настроен публичный ключ
	stored := number
	if s.config.CardPublicKey != "" {
		encrypted, err := utils.PGPEncrypt(number, s.config.CardPublicKey)
		if err != nil {
			return nil, errors.New("не удалось зашифровать номер карты")
		}
		stored = encrypted
	}

	// Процентная ставка: из запроса или по фиду центрального банка
	interestRate := defaultInterestRate
	if dto.InterestRate != nil {
		interestRate = *dto.InterestRate
	} else if s.rates != nil {
		interestRate = s.rates.DefaultInterestRate()
	}

	color := dto.Color
	if color == "" {
		color = "#1976d2"
	}

	card := &models.CreditCard{
		UserID:          dto.UserID,
		CardName:        dto.CardName,
		NumberEncrypted: stored,
		NumberHMAC:      numberHMAC,
		CardType:        models.CardType(dto.CardType),
		ExpiryMonth:     dto.ExpiryMonth,
		ExpiryYear:      dto.ExpiryYear,
		CreditLimit:     dto.CreditLimit,
		CurrentBalance:  dto.CurrentBalance,
		InterestRate:    interestRate,
		IsActive:        true,
		Color:           color,
		LastUsed:        time.Now(),
	}
	card.RecomputeAvailableCredit()

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Сохраняем карту
	if err := tx.Create(card).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("не удалось создать карту")
	}

	// Фиксируем начальный баланс в журнале операций
	if card.CurrentBalance > 0 {
		entry := &models.CardTransaction{
			CardID:        card.ID,
			Amount:        card.CurrentBalance,
			Type:          models.CardTransactionAdjustment,
			BalanceBefore: 0,
			BalanceAfter:  card.CurrentBalance,
			Description:   "Opening balance",
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

	utils.GetMetrics().RecordCardOperation("register")

	return s.cardToResponseDTO(card), nil
}

// GetAllByUserID возвращает активные карты пользователя,
// отсортированные по последнему использованию
func (s *CardService) GetAllByUserID(userID uint) ([]CardResponseDTO, error) {
	var cards []models.CreditCard
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_used DESC").
		Find(&cards).Error; err != nil {
		return nil, errors.New("не удалось получить карты")
	}

	response := make([]CardResponseDTO, 0, len(cards))
	for i := range cards {
		response = append(response, *s.cardToResponseDTO(&cards[i]))
	}

	return response, nil
}

// GetByID возвращает карту пользователя по ID
func (s *CardService) GetByID(userID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := s.db.Where("id = ? AND user_id = ?", cardID, userID).
		First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, errors.New("ошибка при поиске карты")
	}
	return &card, nil
}

// GetCardResponse возвращает карту пользователя в виде DTO
func (s *CardService) GetCardResponse(userID, cardID uint) (*CardResponseDTO, error) {
	card, err := s.GetByID(userID, cardID)
	if err != nil {
		return nil, err
	}
	return s.cardToResponseDTO(card), nil
}

// UpdateCard частично обновляет карту: изменяются только переданные поля
func (s *CardService) UpdateCard(userID, cardID uint, dto UpdateCardDTO) (*CardResponseDTO, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	card, err := s.GetByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	if dto.CardName != nil {
		card.CardName = *dto.CardName
	}
	if dto.CreditLimit != nil {
		card.CreditLimit = *dto.CreditLimit
	}
	if dto.InterestRate != nil {
		card.InterestRate = *dto.InterestRate
	}
	if dto.Color != nil {
		card.Color = *dto.Color
	}

	// Пересчитываем доступный кредит после изменения лимита.
	// Баланс выше нового лимита допускается и помечается в статистике.
	card.RecomputeAvailableCredit()
	card.UpdatedAt = time.Now()

	if err := s.db.Save(card).Error; err != nil {
		return nil, errors.New("ошибка при обновлении карты")
	}

	return s.cardToResponseDTO(card), nil
}

// DeactivateCard деактивирует карту (мягкое удаление).
// Баланс не изменяется, расходы остаются привязанными к карте.
func (s *CardService) DeactivateCard(userID, cardID uint) error {
	card, err := s.GetByID(userID, cardID)
	if err != nil {
		return err
	}

	card.Deactivate()
	card.UpdatedAt = time.Now()

	if err := s.db.Save(card).Error; err != nil {
		return errors.New("ошибка при деактивации карты")
	}

	utils.GetMetrics().RecordCardOperation("deactivate")
	return nil
}

// MakePayment проводит платеж по карте: уменьшает баланс и пересчитывает
// доступный кредит. Платеж, превышающий текущий баланс, отклоняется.
func (s *CardService) MakePayment(dto PayCardDTO) (*CardResponseDTO, error) {
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

	// Получаем карту вместе с владельцем для уведомления
	var card models.CreditCard
	if err := tx.Preload("User").
		Where("id = ? AND user_id = ?", dto.CardID, dto.UserID).
		First(&card).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, errors.New("ошибка при поиске карты")
	}

	// Атомарное условное обновление: баланс уменьшается только если
	// платеж не превышает его. Проверка и запись выполняются одним
	// оператором, поэтому конкурирующие платежи не теряются.
	res := tx.Model(&models.CreditCard{}).
		Where("id = ? AND current_balance >= ?", card.ID, dto.Amount).
		Updates(map[string]interface{}{
			"current_balance":  gorm.Expr("current_balance - ?", dto.Amount),
			"available_credit": gorm.Expr("credit_limit - current_balance + ?", dto.Amount),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при обновлении баланса")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		utils.GetMetrics().RecordLedgerOperation("payment", models.ErrPaymentExceedsBalance)
		return nil, models.ErrPaymentExceedsBalance
	}

	// Перечитываем карту внутри транзакции для записи журнала:
	// баланс из первого чтения мог устареть из-за конкурирующей операции
	var updated models.CreditCard
	if err := tx.First(&updated, card.ID).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при чтении баланса")
	}

	// Фиксируем платеж в журнале операций
	entry := &models.CardTransaction{
		CardID:        card.ID,
		Amount:        -dto.Amount,
		Type:          models.CardTransactionPayment,
		BalanceBefore: updated.CurrentBalance + dto.Amount,
		BalanceAfter:  updated.CurrentBalance,
		Description:   "Card payment",
	}
	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при сохранении записи журнала")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	// Отправляем уведомление, ошибка не прерывает операцию
	if s.email != nil && card.User.Email != "" {
		if err := s.email.SendPaymentNotification(card.User.Email, card.CardName, dto.Amount, updated.CurrentBalance); err != nil {
			utils.LogError("Ошибка отправки уведомления о платеже: %v", err)
		}
	}

	utils.GetMetrics().RecordLedgerOperation("payment", nil)
	utils.LogOperation("card.payment", start, nil)

	return s.cardToResponseDTO(&updated), nil
}

// GetStats возвращает статистику использования карты
func (s *CardService) GetStats(userID, cardID uint) (*CardStatsDTO, error) {
	card, err := s.GetByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	expiry := time.Date(card.ExpiryYear, time.Month(card.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC)
	days := int(math.Ceil(time.Until(expiry).Hours() / 24))

	return &CardStatsDTO{
		UtilizationRate: math.Round(card.Utilization()*100) / 100,
		AvailableCredit: card.AvailableCredit,
		MonthlyInterest: math.Round(card.MonthlyInterest()*100) / 100,
		CreditLimit:     card.CreditLimit,
		CurrentBalance:  card.CurrentBalance,
		IsOverLimit:     card.IsOverLimit(),
		DaysUntilExpiry: days,
	}, nil
}

// GetTransactions возвращает журнал операций по карте пользователя
func (s *CardService) GetTransactions(userID, cardID uint) ([]models.CardTransaction, error) {
	if _, err := s.GetByID(userID, cardID); err != nil {
		return nil, err
	}

	var transactions []models.CardTransaction
	if err := s.db.Where("card_id = ?", cardID).
		Order("created_at ASC, id ASC").
		Find(&transactions).Error; err != nil {
		return nil, errors.New("ошибка при получении журнала операций")
	}

	return transactions, nil
}

// CardSummary возвращает краткие данные карты для включения в расход
func (s *CardService) CardSummary(card *models.CreditCard) CardSummaryDTO {
	return CardSummaryDTO{
		ID:         card.ID,
		CardName:   card.CardName,
		CardNumber: s.maskedNumber(card),
		Color:      card.Color,
	}
}

// maskedNumber расшифровывает номер карты (если он зашифрован)
// и возвращает его в маскированном виде
func (s *CardService) maskedNumber(card *models.CreditCard) string {
	number := card.NumberEncrypted
	if strings.Contains(number, "PGP MESSAGE") && s.config.CardPrivateKey != "" {
		decrypted, err := utils.PGPDecrypt(number, s.config.CardPrivateKey)
		if err != nil {
			utils.LogError("Не удалось расшифровать номер карты %d: %v", card.ID, err)
			return "****-****-****-????"
		}
		number = decrypted
	}
	return models.MaskCardNumber(number)
}

// cardToResponseDTO конвертирует модель карты в DTO для ответа
func (s *CardService) cardToResponseDTO(card *models.CreditCard) *CardResponseDTO {
	return &CardResponseDTO{
		ID:              card.ID,
		CardName:        card.CardName,
		CardNumber:      s.maskedNumber(card),
		CardType:        string(card.CardType),
		ExpiryMonth:     card.ExpiryMonth,
		ExpiryYear:      card.ExpiryYear,
		CreditLimit:     card.CreditLimit,
		CurrentBalance:  card.CurrentBalance,
		AvailableCredit: card.AvailableCredit,
		InterestRate:    card.InterestRate,
		IsActive:        card.IsActive,
		Color:           card.Color,
		LastUsed:        card.LastUsed,
		CreatedAt:       card.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       card.UpdatedAt.Format(time.RFC3339),
	}
}

package models

import (
	"errors"
	"time"
)

// CardType представляет платежную систему карты
type CardType string

const (
	CardTypeVisa       CardType = "Visa"
	CardTypeMastercard CardType = "Mastercard"
	CardTypeAmex       CardType = "American Express"
	CardTypeDiscover   CardType = "Discover"
	CardTypeOther      CardType = "Other"
)

// CardTypes содержит все допустимые платежные системы
var CardTypes = []CardType{
	CardTypeVisa,
	CardTypeMastercard,
	CardTypeAmex,
	CardTypeDiscover,
	CardTypeOther,
}

// IsValidCardType проверяет, что платежная система входит в список допустимых
func IsValidCardType(t string) bool {
	for _, ct := range CardTypes {
		if string(ct) == t {
			return true
		}
	}
	return false
}

var (
	// ErrInsufficientCredit возвращается, когда списание превышает доступный кредит
	ErrInsufficientCredit = errors.New("недостаточно доступного кредита")
	// ErrPaymentExceedsBalance возвращается, когда платеж превышает текущий баланс
	ErrPaymentExceedsBalance = errors.New("сумма платежа превышает текущий баланс")
	// ErrNegativeBalance возвращается, когда корректировка привела бы к отрицательному балансу
	ErrNegativeBalance = errors.New("баланс карты не может быть отрицательным")
	// ErrNonPositiveAmount возвращается для нулевых и отрицательных сумм
	ErrNonPositiveAmount = errors.New("сумма должна быть больше нуля")
	// ErrCardInactive возвращается при операции над деактивированной картой
	ErrCardInactive = errors.New("карта деактивирована")
)

// CreditCard представляет кредитную карту пользователя
type CreditCard struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"column:user_id;not null;index" json:"userId"`
	User            User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CardName        string    `gorm:"column:card_name;not null;size:100" json:"cardName"`
	NumberEncrypted string    `gorm:"column:number_encrypted;not null" json:"-"`
	NumberHMAC      string    `gorm:"column:number_hmac;not null;index" json:"-"`
	CardType        CardType  `gorm:"column:card_type;type:varchar(20);not null" json:"cardType"`
	ExpiryMonth     int       `gorm:"column:expiry_month;not null" json:"expiryMonth"`
	ExpiryYear      int       `gorm:"column:expiry_year;not null" json:"expiryYear"`
	CreditLimit     float64   `gorm:"column:credit_limit;type:decimal(20,2);not null" json:"creditLimit"`
	CurrentBalance  float64   `gorm:"column:current_balance;type:decimal(20,2);not null;default:0.0" json:"currentBalance"`
	AvailableCredit float64   `gorm:"column:available_credit;type:decimal(20,2);not null;default:0.0" json:"availableCredit"`
	InterestRate    float64   `gorm:"column:interest_rate;not null;default:18.5" json:"interestRate"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	Color           string    `gorm:"column:color;size:7;not null;default:'#1976d2'" json:"color"`
	LastUsed        time.Time `gorm:"column:last_used" json:"lastUsed"`
	CreatedAt       time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (CreditCard) TableName() string {
	return "credit_cards"
}

// RecomputeAvailableCredit пересчитывает доступный кредит.
// Инвариант: available_credit == credit_limit - current_balance после любой мутации.
func (c *CreditCard) RecomputeAvailableCredit() {
	c.AvailableCredit = c.CreditLimit - c.CurrentBalance
}

// CanCharge проверяет, можно ли списать указанную сумму с карты
func (c *CreditCard) CanCharge(amount float64) bool {
	if !c.IsActive || amount <= 0 {
		return false
	}
	return c.CreditLimit-c.CurrentBalance >= amount
}

// ApplyCharge списывает сумму с карты. Возвращает ошибку без мутации,
// если сумма некорректна или превышает доступный кредит.
func (c *CreditCard) ApplyCharge(amount float64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if !c.IsActive {
		return ErrCardInactive
	}
	if !c.CanCharge(amount) {
		return ErrInsufficientCredit
	}
	c.CurrentBalance += amount
	c.RecomputeAvailableCredit()
	c.LastUsed = time.Now()
	return nil
}

// ApplyPayment уменьшает баланс карты на сумму платежа.
// Платеж, превышающий текущий баланс, отклоняется, а не усекается.
func (c *CreditCard) ApplyPayment(amount float64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if amount > c.CurrentBalance {
		return ErrPaymentExceedsBalance
	}
	c.CurrentBalance -= amount
	c.RecomputeAvailableCredit()
	return nil
}

// AdjustBalance применяет произвольную знаковую дельту к балансу карты.
// Используется при редактировании и удалении расходов. Отрицательный
// результирующий баланс отклоняется; превышение лимита допускается
// (помечается флагом IsOverLimit), как при прямом редактировании лимита.
func (c *CreditCard) AdjustBalance(delta float64) error {
	if c.CurrentBalance+delta < 0 {
		return ErrNegativeBalance
	}
	c.CurrentBalance += delta
	c.RecomputeAvailableCredit()
	return nil
}

// Deactivate деактивирует карту (мягкое удаление).
// Баланс и лимит не изменяются, расходы остаются привязанными к карте.
func (c *CreditCard) Deactivate() {
	c.IsActive = false
}

// Utilization возвращает использование кредитного лимита в процентах
func (c *CreditCard) Utilization() float64 {
	if c.CreditLimit <= 0 {
		return 0
	}
	return c.CurrentBalance / c.CreditLimit * 100
}

// IsOverLimit проверяет, превышает ли баланс кредитный лимит
func (c *CreditCard) IsOverLimit() bool {
	return c.CurrentBalance > c.CreditLimit
}

// MonthlyInterest возвращает оценку процентов за месяц по текущему балансу
func (c *CreditCard) MonthlyInterest() float64 {
	return c.CurrentBalance * (c.InterestRate / 100) / 12
}

// MaskCardNumber маскирует номер карты, оставляя последние 4 цифры
func MaskCardNumber(number string) string {
	if len(number) < 4 {
		return number
	}
	return "****-****-****-" + number[len(number)-4:]
}

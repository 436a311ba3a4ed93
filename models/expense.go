package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ExpenseCategory представляет категорию расхода
type ExpenseCategory string

const (
	CategoryFoodDining     ExpenseCategory = "Food & Dining"
	CategoryShopping       ExpenseCategory = "Shopping"
	CategoryTransportation ExpenseCategory = "Transportation"
	CategoryEntertainment  ExpenseCategory = "Entertainment"
	CategoryBillsUtilities ExpenseCategory = "Bills & Utilities"
	CategoryHealthcare     ExpenseCategory = "Healthcare"
	CategoryTravel         ExpenseCategory = "Travel"
	CategoryEducation      ExpenseCategory = "Education"
	CategoryGroceries      ExpenseCategory = "Groceries"
	CategoryGas            ExpenseCategory = "Gas"
	CategoryInsurance      ExpenseCategory = "Insurance"
	CategoryInvestment     ExpenseCategory = "Investment"
	CategoryOther          ExpenseCategory = "Other"
)

// ExpenseCategories содержит закрытый список из 13 категорий
var ExpenseCategories = []ExpenseCategory{
	CategoryFoodDining,
	CategoryShopping,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryBillsUtilities,
	CategoryHealthcare,
	CategoryTravel,
	CategoryEducation,
	CategoryGroceries,
	CategoryGas,
	CategoryInsurance,
	CategoryInvestment,
	CategoryOther,
}

// IsValidCategory проверяет, что категория входит в закрытый список
func IsValidCategory(c string) bool {
	for _, ec := range ExpenseCategories {
		if string(ec) == c {
			return true
		}
	}
	return false
}

// RecurringFrequency представляет периодичность повторяющегося расхода
type RecurringFrequency string

const (
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

// IsValidFrequency проверяет периодичность повторяющегося расхода
func IsValidFrequency(f string) bool {
	switch RecurringFrequency(f) {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Expense представляет расход по кредитной карте
type Expense struct {
	ID                 uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint               `gorm:"column:user_id;not null;index:idx_expenses_user_date" json:"userId"`
	CardID             uint               `gorm:"column:card_id;not null;index" json:"cardId"`
	Card               CreditCard         `gorm:"foreignKey:CardID;references:ID" json:"-"`
	Amount             float64            `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Description        string             `gorm:"column:description;not null;size:200" json:"description"`
	Category           ExpenseCategory    `gorm:"column:category;type:varchar(30);not null;index" json:"category"`
	Subcategory        string             `gorm:"column:subcategory;size:100" json:"subcategory,omitempty"`
	Merchant           string             `gorm:"column:merchant;size:100" json:"merchant,omitempty"`
	Location           string             `gorm:"column:location;size:100" json:"location,omitempty"`
	Date               time.Time          `gorm:"column:date;not null;index:idx_expenses_user_date" json:"date"`
	IsRecurring        bool               `gorm:"column:is_recurring;not null;default:false" json:"isRecurring"`
	RecurringFrequency RecurringFrequency `gorm:"column:recurring_frequency;type:varchar(10)" json:"recurringFrequency,omitempty"`
	Tags               string             `gorm:"column:tags;size:500" json:"-"`
	Notes              string             `gorm:"column:notes;size:500" json:"notes,omitempty"`
	ReceiptURL         string             `gorm:"column:receipt_url;size:500" json:"receiptUrl,omitempty"`
	IsEssential        bool               `gorm:"column:is_essential;not null;default:false" json:"isEssential"`
	CreatedAt          time.Time          `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Expense) TableName() string {
	return "expenses"
}

// BeforeSave хук для валидации перед сохранением
func (e *Expense) BeforeSave(tx *gorm.DB) error {
	if e.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if l := len(strings.TrimSpace(e.Description)); l < 1 || l > 200 {
		return errors.New("description must be between 1 and 200 characters")
	}
	if !IsValidCategory(string(e.Category)) {
		return errors.New("invalid expense category")
	}
	if e.IsRecurring && !IsValidFrequency(string(e.RecurringFrequency)) {
		return errors.New("recurring frequency is required for recurring expenses")
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return nil
}

// TagList возвращает теги расхода списком
func (e *Expense) TagList() []string {
	if e.Tags == "" {
		return []string{}
	}
	parts := strings.Split(e.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTags сериализует список тегов для хранения
func (e *Expense) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	e.Tags = strings.Join(cleaned, ",")
}

// NextOccurrence возвращает дату следующего повторения расхода
func (e *Expense) NextOccurrence(from time.Time) time.Time {
	switch e.RecurringFrequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

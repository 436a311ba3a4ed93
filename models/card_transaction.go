package models

import (
	"time"
)

// CardTransactionType представляет тип операции по карте
type CardTransactionType string

const (
	CardTransactionCharge     CardTransactionType = "CHARGE"     // Списание при создании расхода
	CardTransactionPayment    CardTransactionType = "PAYMENT"    // Платеж по карте
	CardTransactionAdjustment CardTransactionType = "ADJUSTMENT" // Корректировка при редактировании расхода
	CardTransactionRefund     CardTransactionType = "REFUND"     // Возврат при удалении расхода
)

// CardTransaction представляет запись в журнале операций по карте.
// Журнал пополняется только добавлением: каждая мутация баланса внутри
// одной транзакции БД создает запись, поэтому баланс карты всегда равен
// свертке ее записей поверх начального баланса.
type CardTransaction struct {
	ID            uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID        uint                `gorm:"column:card_id;not null;index" json:"cardId"`
	ExpenseID     *uint               `gorm:"column:expense_id;index" json:"expenseId,omitempty"`
	Amount        float64             `gorm:"column:amount;not null" json:"amount"`
	Type          CardTransactionType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	BalanceBefore float64             `gorm:"column:balance_before;not null" json:"balanceBefore"`
	BalanceAfter  float64             `gorm:"column:balance_after;not null" json:"balanceAfter"`
	Description   string              `gorm:"column:description;size:255" json:"description"`
	CreatedAt     time.Time           `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (CardTransaction) TableName() string {
	return "card_transactions"
}

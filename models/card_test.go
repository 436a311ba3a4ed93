package models

import (
	"errors"
	"testing"
)

func newTestCard(limit, balance float64) *CreditCard {
	card := &CreditCard{
		CardName:       "Основная карта",
		CardType:       CardTypeVisa,
		ExpiryMonth:    12,
		ExpiryYear:     2030,
		CreditLimit:    limit,
		CurrentBalance: balance,
		InterestRate:   18.5,
		IsActive:       true,
	}
	card.RecomputeAvailableCredit()
	return card
}

// Инвариант: после любой последовательности операций
// available_credit == credit_limit - current_balance
func checkInvariant(t *testing.T, card *CreditCard) {
	t.Helper()
	if got, want := card.AvailableCredit, card.CreditLimit-card.CurrentBalance; got != want {
		t.Errorf("available credit = %v, want %v", got, want)
	}
	if card.CurrentBalance < 0 {
		t.Errorf("current balance = %v, must not be negative", card.CurrentBalance)
	}
}

func TestApplyChargeInsufficientCredit(t *testing.T) {
	// Лимит 1000, баланс 0: списание 1200 отклоняется без мутации
	card := newTestCard(1000, 0)

	err := card.ApplyCharge(1200)
	if !errors.Is(err, ErrInsufficientCredit) {
		t.Fatalf("ApplyCharge(1200) = %v, want ErrInsufficientCredit", err)
	}
	if card.CurrentBalance != 0 {
		t.Errorf("current balance = %v, want 0 after rejected charge", card.CurrentBalance)
	}
	if card.AvailableCredit != 1000 {
		t.Errorf("available credit = %v, want 1000 after rejected charge", card.AvailableCredit)
	}
	checkInvariant(t, card)
}

func TestApplyChargeSuccess(t *testing.T) {
	// Лимит 1000, баланс 200: списание 300 дает баланс 500, доступно 500
	card := newTestCard(1000, 200)

	if err := card.ApplyCharge(300); err != nil {
		t.Fatalf("ApplyCharge(300) = %v", err)
	}
	if card.CurrentBalance != 500 {
		t.Errorf("current balance = %v, want 500", card.CurrentBalance)
	}
	if card.AvailableCredit != 500 {
		t.Errorf("available credit = %v, want 500", card.AvailableCredit)
	}
	if card.LastUsed.IsZero() {
		t.Error("last used must be set after charge")
	}
	checkInvariant(t, card)
}

func TestApplyChargeExactLimit(t *testing.T) {
	// Списание ровно на весь доступный кредит проходит
	card := newTestCard(1000, 200)

	if err := card.ApplyCharge(800); err != nil {
		t.Fatalf("ApplyCharge(800) = %v", err)
	}
	if card.CurrentBalance != 1000 {
		t.Errorf("current balance = %v, want 1000", card.CurrentBalance)
	}
	if card.AvailableCredit != 0 {
		t.Errorf("available credit = %v, want 0", card.AvailableCredit)
	}
	checkInvariant(t, card)
}

func TestApplyChargeNonPositiveAmount(t *testing.T) {
	card := newTestCard(1000, 0)

	for _, amount := range []float64{0, -50} {
		if err := card.ApplyCharge(amount); !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("ApplyCharge(%v) = %v, want ErrNonPositiveAmount", amount, err)
		}
	}
	if card.CurrentBalance != 0 {
		t.Errorf("current balance = %v, want 0", card.CurrentBalance)
	}
}

func TestApplyChargeInactiveCard(t *testing.T) {
	card := newTestCard(1000, 0)
	card.Deactivate()

	if err := card.ApplyCharge(100); !errors.Is(err, ErrCardInactive) {
		t.Errorf("ApplyCharge on inactive card = %v, want ErrCardInactive", err)
	}
	if card.CurrentBalance != 0 {
		t.Errorf("current balance = %v, want 0", card.CurrentBalance)
	}
}

func TestAdjustBalanceOnExpenseEdit(t *testing.T) {
	// Расход 300 отредактирован до 100: баланс уменьшается на 200
	card := newTestCard(1000, 200)
	if err := card.ApplyCharge(300); err != nil {
		t.Fatalf("ApplyCharge(300) = %v", err)
	}

	if err := card.AdjustBalance(100 - 300); err != nil {
		t.Fatalf("AdjustBalance(-200) = %v", err)
	}
	if card.CurrentBalance != 300 {
		t.Errorf("current balance = %v, want 300", card.CurrentBalance)
	}
	checkInvariant(t, card)
}

func TestAdjustBalanceRejectsNegativeResult(t *testing.T) {
	// Корректировка ниже нуля отклоняется без мутации
	card := newTestCard(1000, 100)

	if err := card.AdjustBalance(-150); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("AdjustBalance(-150) = %v, want ErrNegativeBalance", err)
	}
	if card.CurrentBalance != 100 {
		t.Errorf("current balance = %v, want 100", card.CurrentBalance)
	}
	checkInvariant(t, card)
}

func TestAdjustBalanceRefundOnDelete(t *testing.T) {
	// Удаление расхода возвращает его сумму на карту
	card := newTestCard(1000, 500)

	if err := card.AdjustBalance(-500); err != nil {
		t.Fatalf("AdjustBalance(-500) = %v", err)
	}
	if card.CurrentBalance != 0 {
		t.Errorf("current balance = %v, want 0", card.CurrentBalance)
	}
	if card.AvailableCredit != 1000 {
		t.Errorf("available credit = %v, want 1000", card.AvailableCredit)
	}
	checkInvariant(t, card)
}

func TestApplyPaymentFullBalance(t *testing.T) {
	// Лимит 400, баланс 400: платеж 400 обнуляет баланс
	card := newTestCard(400, 400)

	if err := card.ApplyPayment(400); err != nil {
		t.Fatalf("ApplyPayment(400) = %v", err)
	}
	if card.CurrentBalance != 0 {
		t.Errorf("current balance = %v, want 0", card.CurrentBalance)
	}
	if card.AvailableCredit != 400 {
		t.Errorf("available credit = %v, want 400", card.AvailableCredit)
	}
	checkInvariant(t, card)
}

func TestApplyPaymentExceedsBalance(t *testing.T) {
	// Платеж 500 при балансе 400 отклоняется целиком, не усекается
	card := newTestCard(400, 400)

	if err := card.ApplyPayment(500); !errors.Is(err, ErrPaymentExceedsBalance) {
		t.Fatalf("ApplyPayment(500) = %v, want ErrPaymentExceedsBalance", err)
	}
	if card.CurrentBalance != 400 {
		t.Errorf("current balance = %v, want 400 after rejected payment", card.CurrentBalance)
	}
	checkInvariant(t, card)
}

func TestApplyPaymentNonPositiveAmount(t *testing.T) {
	card := newTestCard(400, 200)

	for _, amount := range []float64{0, -10} {
		if err := card.ApplyPayment(amount); !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("ApplyPayment(%v) = %v, want ErrNonPositiveAmount", amount, err)
		}
	}
}

func TestOperationSequenceKeepsInvariant(t *testing.T) {
	// Смешанная последовательность операций сохраняет инвариант
	card := newTestCard(2000, 0)

	steps := []func() error{
		func() error { return card.ApplyCharge(700) },
		func() error { return card.ApplyCharge(300) },
		func() error { return card.AdjustBalance(-150) }, // расход уменьшен
		func() error { return card.ApplyPayment(500) },
		func() error { return card.ApplyCharge(1200) },
		func() error { return card.AdjustBalance(-350) }, // расход удален
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		checkInvariant(t, card)
	}

	if card.CurrentBalance != 1200 {
		t.Errorf("current balance = %v, want 1200", card.CurrentBalance)
	}
}

func TestUtilizationAndOverLimit(t *testing.T) {
	card := newTestCard(1000, 750)
	if got := card.Utilization(); got != 75 {
		t.Errorf("utilization = %v, want 75", got)
	}
	if card.IsOverLimit() {
		t.Error("card must not be over limit at 75% utilization")
	}

	// Снижение лимита ниже баланса допускается и помечается флагом
	card.CreditLimit = 500
	card.RecomputeAvailableCredit()
	if !card.IsOverLimit() {
		t.Error("card must be over limit after limit drop below balance")
	}
	if card.AvailableCredit != -250 {
		t.Errorf("available credit = %v, want -250", card.AvailableCredit)
	}

	card.CreditLimit = 0
	if got := card.Utilization(); got != 0 {
		t.Errorf("utilization with zero limit = %v, want 0", got)
	}
}

func TestMonthlyInterest(t *testing.T) {
	card := newTestCard(1000, 1200)
	card.InterestRate = 24

	// 1200 * 24% / 12 = 24 в месяц
	if got := card.MonthlyInterest(); got != 24 {
		t.Errorf("monthly interest = %v, want 24", got)
	}
}

func TestMaskCardNumber(t *testing.T) {
	if got := MaskCardNumber("4111111111111234"); got != "****-****-****-1234" {
		t.Errorf("MaskCardNumber = %q", got)
	}
	if got := MaskCardNumber("12"); got != "12" {
		t.Errorf("MaskCardNumber short = %q", got)
	}
}

func TestIsValidCardType(t *testing.T) {
	for _, ct := range CardTypes {
		if !IsValidCardType(string(ct)) {
			t.Errorf("IsValidCardType(%q) = false", ct)
		}
	}
	if IsValidCardType("Mir") {
		t.Error("IsValidCardType(\"Mir\") = true, want false")
	}
}

package services

import (
	"cardspend/models"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newTestExpenseService(t *testing.T) (*gorm.DB, *CardService, *ExpenseService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	cards := newTestCardService(db)
	expenses := NewExpenseService(db, cards)
	user := createTestUser(t, db)
	return db, cards, expenses, user
}

func TestCreateExpenseChargesCard(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 200)

	result, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      300,
		Description: "Продукты на неделю",
		Category:    "Groceries",
		Merchant:    "Пятерочка",
		Tags:        []string{"еда", "дом"},
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Баланс и доступный кредит обновлены атомарно с расходом
	if result.UpdatedCard.CurrentBalance != 500 {
		t.Errorf("current balance = %v, want 500", result.UpdatedCard.CurrentBalance)
	}
	if result.UpdatedCard.AvailableCredit != 500 {
		t.Errorf("available credit = %v, want 500", result.UpdatedCard.AvailableCredit)
	}
	if result.Expense.Amount != 300 {
		t.Errorf("expense amount = %v, want 300", result.Expense.Amount)
	}
	if result.Expense.Card == nil || result.Expense.Card.CardNumber != "****-****-****-1111" {
		t.Errorf("expense card summary = %+v, want masked number", result.Expense.Card)
	}

	// Списание фиксируется в журнале операций
	transactions, err := cards.GetTransactions(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	last := transactions[len(transactions)-1]
	if last.Type != models.CardTransactionCharge {
		t.Errorf("last transaction type = %q, want CHARGE", last.Type)
	}
	if last.Amount != 300 {
		t.Errorf("last transaction amount = %v, want 300", last.Amount)
	}
	if last.BalanceBefore != 200 || last.BalanceAfter != 500 {
		t.Errorf("transaction balances = %v -> %v, want 200 -> 500", last.BalanceBefore, last.BalanceAfter)
	}
	if last.ExpenseID == nil || *last.ExpenseID != result.Expense.ID {
		t.Error("transaction must reference the expense")
	}
}

func TestCreateExpenseInsufficientCredit(t *testing.T) {
	db, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)

	// Лимит 1000: расход 1200 отклоняется целиком
	_, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      1200,
		Description: "Ноутбук",
		Category:    "Shopping",
		UserID:      user.ID,
	})

	var insufficient *InsufficientCreditError
	if !errors.As(err, &insufficient) {
		t.Fatalf("CreateExpense(1200) = %v, want InsufficientCreditError", err)
	}
	if insufficient.Available != 1000 {
		t.Errorf("available in error = %v, want 1000", insufficient.Available)
	}
	if !errors.Is(err, models.ErrInsufficientCredit) {
		t.Error("error must unwrap to ErrInsufficientCredit")
	}

	// Ни расход, ни баланс не изменились
	var count int64
	db.Model(&models.Expense{}).Count(&count)
	if count != 0 {
		t.Errorf("expense count = %d, want 0 after rejected charge", count)
	}
	got, err := cards.GetByID(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CurrentBalance != 0 || got.AvailableCredit != 1000 {
		t.Errorf("card = %v/%v, want 0/1000 unchanged", got.CurrentBalance, got.AvailableCredit)
	}
}

func TestCreateExpenseInsufficientCreditReportsFreshAvailable(t *testing.T) {
	db, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 950)

	// Считаем чтения карты: отклонение перечитывает карту после отката,
	// а не возвращает значение из чтения в начале транзакции
	reads := 0
	if err := db.Callback().Query().After("gorm:query").Register("count_card_reads", func(tx *gorm.DB) {
		if tx.Statement.Table == "credit_cards" {
			reads++
		}
	}); err != nil {
		t.Fatalf("не удалось зарегистрировать callback: %v", err)
	}
	defer db.Callback().Query().Remove("count_card_reads")

	_, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      200,
		Description: "Ужин в ресторане",
		Category:    "Food & Dining",
		UserID:      user.ID,
	})

	var insufficient *InsufficientCreditError
	if !errors.As(err, &insufficient) {
		t.Fatalf("CreateExpense(200) = %v, want InsufficientCreditError", err)
	}
	if insufficient.Available != 50 {
		t.Errorf("available in error = %v, want 50", insufficient.Available)
	}
	if reads < 2 {
		t.Errorf("card read %d times, want initial load plus reload after rollback", reads)
	}

	// Сообщенное значение совпадает с сохраненным состоянием карты
	got, err := cards.GetByID(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AvailableCredit != insufficient.Available {
		t.Errorf("persisted available %v != reported %v", got.AvailableCredit, insufficient.Available)
	}
}

func TestCrossedHighUtilization(t *testing.T) {
	tests := []struct {
		name   string
		before float64
		after  float64
		want   bool
	}{
		{"переход через порог", 600, 750, true},
		{"уже выше порога", 720, 800, false},
		{"остается ниже порога", 300, 500, false},
		{"ровно на пороге", 600, 700, false},
	}

	for _, tt := range tests {
		before := &models.CreditCard{CreditLimit: 1000, CurrentBalance: tt.before}
		after := &models.CreditCard{CreditLimit: 1000, CurrentBalance: tt.after}
		if got := crossedHighUtilization(before, after); got != tt.want {
			t.Errorf("%s: crossedHighUtilization = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCreateExpenseInactiveCard(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)

	if err := cards.DeactivateCard(user.ID, card.ID); err != nil {
		t.Fatalf("DeactivateCard: %v", err)
	}

	_, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      50,
		Description: "Кофе",
		Category:    "Food & Dining",
		UserID:      user.ID,
	})
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("CreateExpense(inactive card) = %v, want ErrCardNotFound", err)
	}
}

func TestCreateExpenseWrongOwner(t *testing.T) {
	db, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)
	stranger := createTestUser(t, db)

	_, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      50,
		Description: "Кофе",
		Category:    "Food & Dining",
		UserID:      stranger.ID,
	})
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("CreateExpense(foreign card) = %v, want ErrCardNotFound", err)
	}
}

func TestCreateExpenseRecurringRequiresFrequency(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)

	_, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      15,
		Description: "Подписка",
		Category:    "Entertainment",
		IsRecurring: true,
		UserID:      user.ID,
	})
	if !IsValidationError(err) {
		t.Errorf("CreateExpense(recurring without frequency) = %v, want validation error", err)
	}
}

func TestUpdateExpenseAmountAdjustsBalance(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 200)

	created, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      300,
		Description: "Ужин",
		Category:    "Food & Dining",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Расход 300 отредактирован до 100: баланс уменьшается на 200
	newAmount := 100.0
	result, err := expenses.UpdateExpense(user.ID, created.Expense.ID, UpdateExpenseDTO{Amount: &newAmount})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if result.UpdatedCard.CurrentBalance != 300 {
		t.Errorf("current balance = %v, want 300", result.UpdatedCard.CurrentBalance)
	}
	if result.UpdatedCard.AvailableCredit != 700 {
		t.Errorf("available credit = %v, want 700", result.UpdatedCard.AvailableCredit)
	}
	if result.Expense.Amount != 100 {
		t.Errorf("expense amount = %v, want 100", result.Expense.Amount)
	}

	// Корректировка фиксируется в журнале операций
	transactions, err := cards.GetTransactions(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	last := transactions[len(transactions)-1]
	if last.Type != models.CardTransactionAdjustment {
		t.Errorf("last transaction type = %q, want ADJUSTMENT", last.Type)
	}
	if last.Amount != -200 {
		t.Errorf("last transaction amount = %v, want -200", last.Amount)
	}
}

func TestUpdateExpenseIncreaseChecksCredit(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 200)

	created, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      300,
		Description: "Ремонт",
		Category:    "Other",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Увеличение до 900 требует еще 600 при доступных 500
	newAmount := 900.0
	_, err = expenses.UpdateExpense(user.ID, created.Expense.ID, UpdateExpenseDTO{Amount: &newAmount})
	var insufficient *InsufficientCreditError
	if !errors.As(err, &insufficient) {
		t.Fatalf("UpdateExpense(increase) = %v, want InsufficientCreditError", err)
	}
	if insufficient.Available != 500 {
		t.Errorf("available in error = %v, want 500", insufficient.Available)
	}

	// Расход и баланс не изменились
	got, err := expenses.GetExpense(user.ID, created.Expense.ID)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if got.Amount != 300 {
		t.Errorf("expense amount = %v, want 300 unchanged", got.Amount)
	}
	cardAfter, err := cards.GetByID(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cardAfter.CurrentBalance != 500 {
		t.Errorf("current balance = %v, want 500 unchanged", cardAfter.CurrentBalance)
	}
}

func TestUpdateExpenseNonAmountFields(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)

	created, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      75,
		Description: "Бензин",
		Category:    "Gas",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	notes := "Полный бак"
	essential := true
	result, err := expenses.UpdateExpense(user.ID, created.Expense.ID, UpdateExpenseDTO{
		Notes:       &notes,
		IsEssential: &essential,
		Tags:        []string{"машина"},
	})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if result.Expense.Notes != "Полный бак" || !result.Expense.IsEssential {
		t.Errorf("expense = %+v, fields not updated", result.Expense)
	}

	// Сумма не менялась, корректировка в журнал не пишется
	transactions, err := cards.GetTransactions(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	for _, tr := range transactions {
		if tr.Type == models.CardTransactionAdjustment {
			t.Error("no adjustment entry expected when amount is unchanged")
		}
	}
}

func TestDeleteExpenseRefundsCard(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 200)

	created, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      300,
		Description: "Билеты",
		Category:    "Travel",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	updated, err := expenses.DeleteExpense(user.ID, created.Expense.ID)
	if err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if updated.CurrentBalance != 200 {
		t.Errorf("current balance = %v, want 200 after refund", updated.CurrentBalance)
	}
	if updated.AvailableCredit != 800 {
		t.Errorf("available credit = %v, want 800 after refund", updated.AvailableCredit)
	}

	// Возврат фиксируется в журнале операций
	transactions, err := cards.GetTransactions(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	last := transactions[len(transactions)-1]
	if last.Type != models.CardTransactionRefund {
		t.Errorf("last transaction type = %q, want REFUND", last.Type)
	}
	if last.Amount != -300 {
		t.Errorf("last transaction amount = %v, want -300", last.Amount)
	}

	// Повторное удаление: расхода уже нет
	if _, err := expenses.DeleteExpense(user.ID, created.Expense.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("second DeleteExpense = %v, want ErrExpenseNotFound", err)
	}
}

func TestLedgerFoldMatchesBalance(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 2000, 150)

	// Смешанная последовательность операций
	first, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID: card.ID, Amount: 400, Description: "Мебель", Category: "Shopping", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense(400): %v", err)
	}
	second, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID: card.ID, Amount: 250, Description: "Страховка", Category: "Insurance", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense(250): %v", err)
	}
	newAmount := 100.0
	if _, err := expenses.UpdateExpense(user.ID, first.Expense.ID, UpdateExpenseDTO{Amount: &newAmount}); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if _, err := expenses.DeleteExpense(user.ID, second.Expense.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if _, err := cards.MakePayment(PayCardDTO{Amount: 200, CardID: card.ID, UserID: user.ID}); err != nil {
		t.Fatalf("MakePayment: %v", err)
	}

	got, err := cards.GetByID(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// 150 + 400 + 250 - 300 - 250 - 200 = 50
	if got.CurrentBalance != 50 {
		t.Errorf("current balance = %v, want 50", got.CurrentBalance)
	}
	if got.AvailableCredit != got.CreditLimit-got.CurrentBalance {
		t.Errorf("available credit = %v, want %v", got.AvailableCredit, got.CreditLimit-got.CurrentBalance)
	}

	// Баланс равен свертке журнала операций
	transactions, err := cards.GetTransactions(user.ID, card.ID)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	var fold float64
	for _, tr := range transactions {
		fold += tr.Amount
		if diff := tr.BalanceAfter - tr.BalanceBefore; diff != tr.Amount {
			t.Errorf("transaction %d: balance delta %v != amount %v", tr.ID, diff, tr.Amount)
		}
	}
	if fold != got.CurrentBalance {
		t.Errorf("ledger fold = %v, want balance %v", fold, got.CurrentBalance)
	}
}

func TestListExpensesPagination(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 5000, 0)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		date := base.AddDate(0, 0, -i)
		_, err := expenses.CreateExpense(CreateExpenseDTO{
			CardID:      card.ID,
			Amount:      10,
			Description: fmt.Sprintf("Расход %d", i),
			Category:    "Other",
			Date:        &date,
			UserID:      user.ID,
		})
		if err != nil {
			t.Fatalf("CreateExpense(%d): %v", i, err)
		}
	}

	// Первая страница по умолчанию: 20 расходов, отсортированных по дате
	page, err := expenses.ListExpenses(user.ID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(page.Expenses) != 20 {
		t.Errorf("len(expenses) = %d, want 20", len(page.Expenses))
	}
	if page.Pagination.TotalExpenses != 25 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v, want 25 total, 2 pages", page.Pagination)
	}
	if !page.Pagination.HasNext || page.Pagination.HasPrev {
		t.Errorf("pagination flags = %+v, want hasNext without hasPrev", page.Pagination)
	}
	if !page.Expenses[0].Date.After(page.Expenses[1].Date) {
		t.Error("expenses must be sorted by date descending")
	}

	// Вторая страница
	page2, err := expenses.ListExpenses(user.ID, ExpenseFilter{Page: 2})
	if err != nil {
		t.Fatalf("ListExpenses(page 2): %v", err)
	}
	if len(page2.Expenses) != 5 {
		t.Errorf("len(expenses) = %d, want 5", len(page2.Expenses))
	}
	if page2.Pagination.HasNext || !page2.Pagination.HasPrev {
		t.Errorf("pagination flags = %+v, want hasPrev without hasNext", page2.Pagination)
	}
}

func TestListExpensesFilters(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	first := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)
	second := createTestCard(t, cards, user.ID, "4222222222222222", 1000, 0)

	july := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		cardID   uint
		category string
		date     time.Time
		amount   float64
	}{
		{first.ID, "Groceries", july, 40},
		{first.ID, "Gas", august, 60},
		{second.ID, "Groceries", august, 80},
	}
	for i, sd := range seed {
		date := sd.date
		_, err := expenses.CreateExpense(CreateExpenseDTO{
			CardID:      sd.cardID,
			Amount:      sd.amount,
			Description: fmt.Sprintf("Расход %d", i),
			Category:    sd.category,
			Date:        &date,
			UserID:      user.ID,
		})
		if err != nil {
			t.Fatalf("CreateExpense(%d): %v", i, err)
		}
	}

	// Фильтр по категории
	page, err := expenses.ListExpenses(user.ID, ExpenseFilter{Category: "Groceries"})
	if err != nil {
		t.Fatalf("ListExpenses(category): %v", err)
	}
	if page.Pagination.TotalExpenses != 2 {
		t.Errorf("category filter total = %d, want 2", page.Pagination.TotalExpenses)
	}

	// Фильтр по карте
	page, err = expenses.ListExpenses(user.ID, ExpenseFilter{CardID: second.ID})
	if err != nil {
		t.Fatalf("ListExpenses(card): %v", err)
	}
	if page.Pagination.TotalExpenses != 1 {
		t.Errorf("card filter total = %d, want 1", page.Pagination.TotalExpenses)
	}

	// Фильтр по диапазону дат
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	page, err = expenses.ListExpenses(user.ID, ExpenseFilter{StartDate: &start})
	if err != nil {
		t.Fatalf("ListExpenses(dates): %v", err)
	}
	if page.Pagination.TotalExpenses != 2 {
		t.Errorf("date filter total = %d, want 2", page.Pagination.TotalExpenses)
	}

	// Сортировка по сумме
	page, err = expenses.ListExpenses(user.ID, ExpenseFilter{SortBy: "amount", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("ListExpenses(sort): %v", err)
	}
	if page.Expenses[0].Amount != 40 {
		t.Errorf("first expense amount = %v, want 40 with ascending sort", page.Expenses[0].Amount)
	}
}

func TestListByCategory(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)

	for _, amount := range []float64{25, 35} {
		_, err := expenses.CreateExpense(CreateExpenseDTO{
			CardID:      card.ID,
			Amount:      amount,
			Description: "Лекарства",
			Category:    "Healthcare",
			UserID:      user.ID,
		})
		if err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	result, err := expenses.ListByCategory(user.ID, "Healthcare")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if result.Count != 2 || result.TotalAmount != 60 {
		t.Errorf("ListByCategory = count %d total %v, want 2 and 60", result.Count, result.TotalAmount)
	}

	if _, err := expenses.ListByCategory(user.ID, "Rent"); !IsValidationError(err) {
		t.Errorf("ListByCategory(invalid) = %v, want validation error", err)
	}
}

func TestGetExpenseOwnerScoped(t *testing.T) {
	db, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)
	stranger := createTestUser(t, db)

	created, err := expenses.CreateExpense(CreateExpenseDTO{
		CardID:      card.ID,
		Amount:      20,
		Description: "Кино",
		Category:    "Entertainment",
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if _, err := expenses.GetExpense(user.ID, created.Expense.ID); err != nil {
		t.Fatalf("GetExpense(owner): %v", err)
	}
	if _, err := expenses.GetExpense(stranger.ID, created.Expense.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("GetExpense(stranger) = %v, want ErrExpenseNotFound", err)
	}
	if _, err := expenses.UpdateExpense(stranger.ID, created.Expense.ID, UpdateExpenseDTO{}); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("UpdateExpense(stranger) = %v, want ErrExpenseNotFound", err)
	}
	if _, err := expenses.DeleteExpense(stranger.ID, created.Expense.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("DeleteExpense(stranger) = %v, want ErrExpenseNotFound", err)
	}
}

func TestRecentExpenses(t *testing.T) {
	_, cards, expenses, user := newTestExpenseService(t)
	card := createTestCard(t, cards, user.ID, "4111111111111111", 1000, 0)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		date := base.AddDate(0, 0, -i)
		_, err := expenses.CreateExpense(CreateExpenseDTO{
			CardID:      card.ID,
			Amount:      5,
			Description: fmt.Sprintf("Расход %d", i),
			Category:    "Other",
			Date:        &date,
			UserID:      user.ID,
		})
		if err != nil {
			t.Fatalf("CreateExpense(%d): %v", i, err)
		}
	}

	recent, err := expenses.RecentExpenses(user.ID, 0)
	if err != nil {
		t.Fatalf("RecentExpenses: %v", err)
	}
	if len(recent) != 10 {
		t.Errorf("len(recent) = %d, want default 10", len(recent))
	}
	if !recent[0].Date.After(recent[1].Date) {
		t.Error("recent expenses must be sorted by date descending")
	}

	recent, err = expenses.RecentExpenses(user.ID, 3)
	if err != nil {
		t.Fatalf("RecentExpenses(3): %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("len(recent) = %d, want 3", len(recent))
	}
}

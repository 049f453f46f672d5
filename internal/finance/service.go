package finance

import (
	"context"
	"fmt"
	"sort"
	"time"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MAX_NAME_LENGTH        = 255
	MAX_CATEGORY_LENGTH    = 255
	MAX_DESCRIPTION_LENGTH = 1000
	DATE_LAYOUT            = "2006-01-02"
)

// Tracker is the domain service; every collection mutation goes
// through it so that IDs and invariants are applied in one place.
type Tracker struct {
	storage     Storage
	StorageType string
}

func NewTracker(s Storage) Tracker {
	return Tracker{
		storage:     s,
		StorageType: s.GetStorageType(),
	}
}

type Storage interface {
	SaveTransaction(ctx context.Context, t Transaction) error
	GetTransactionByID(ctx context.Context, id string) (Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	CountTransactions(ctx context.Context) (int, error)

	SaveGoal(ctx context.Context, g SavingsGoal) error
	GetGoalByID(ctx context.Context, id string) (SavingsGoal, error)
	ListGoals(ctx context.Context) ([]SavingsGoal, error)
	DeleteGoal(ctx context.Context, id string) error

	SaveRecurringExpense(ctx context.Context, r RecurringExpense) error
	ListRecurringExpenses(ctx context.Context) ([]RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, id string) error

	SaveDebt(ctx context.Context, d Debt) error
	GetDebtByID(ctx context.Context, id string) (Debt, error)
	ListDebts(ctx context.Context) ([]Debt, error)
	DeleteDebt(ctx context.Context, id string) error

	SaveInvestment(ctx context.Context, i Investment) error
	GetInvestmentByID(ctx context.Context, id string) (Investment, error)
	ListInvestments(ctx context.Context) ([]Investment, error)
	DeleteInvestment(ctx context.Context, id string) error

	Snapshot(ctx context.Context) (Snapshot, error)
	ReplaceAll(ctx context.Context, snapshot Snapshot) error

	GetStorageType() string
}

func validateDate(date string) error {
	if _, err := time.Parse(DATE_LAYOUT, date); err != nil {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid date %q, expected format: YYYY-MM-DD.", date),
		}
	}
	return nil
}

func (tr *Tracker) AddTransaction(ctx context.Context, req TransactionRequest) (Transaction, error) {
	if !req.Amount.IsPositive() {
		return Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Transaction amount must be greater than zero.",
		}
	}
	if req.Type != TypeIncome && req.Type != TypeExpense {
		return Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid transaction type: %q.", req.Type),
		}
	}
	if req.Category == "" {
		return Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Transaction category is required.",
		}
	}
	if len(req.Category) > MAX_CATEGORY_LENGTH {
		return Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Category too long, maximum length is %d.", MAX_CATEGORY_LENGTH),
		}
	}
	if len(req.Description) > MAX_DESCRIPTION_LENGTH {
		return Transaction{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Description too long, maximum length is %d.", MAX_DESCRIPTION_LENGTH),
		}
	}
	if err := validateDate(req.Date); err != nil {
		return Transaction{}, err
	}

	t := Transaction{
		ID:          uuid.New().String(),
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}

	if err := tr.storage.SaveTransaction(ctx, t); err != nil {
		return Transaction{}, fmt.Errorf("failed to save transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns transactions sorted by date descending. The
// store keeps insertion order, the ordering is applied here.
func (tr *Tracker) ListTransactions(ctx context.Context) ([]Transaction, error) {
	transactions, err := tr.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date > transactions[j].Date
	})
	return transactions, nil
}

func (tr *Tracker) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	t, err := tr.storage.GetTransactionByID(ctx, id)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (tr *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	if err := tr.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (tr *Tracker) AddGoal(ctx context.Context, req GoalRequest) (SavingsGoal, error) {
	if req.Name == "" {
		return SavingsGoal{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Goal name is required.",
		}
	}
	if len(req.Name) > MAX_NAME_LENGTH {
		return SavingsGoal{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Goal name too long, maximum length is %d.", MAX_NAME_LENGTH),
		}
	}
	if !req.TargetAmount.IsPositive() {
		return SavingsGoal{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Goal target amount must be greater than zero.",
		}
	}
	if req.CurrentAmount.IsNegative() {
		return SavingsGoal{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Goal current amount cannot be negative.",
		}
	}

	g := SavingsGoal{
		ID:            uuid.New().String(),
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Color:         req.Color,
	}

	if err := tr.storage.SaveGoal(ctx, g); err != nil {
		return SavingsGoal{}, fmt.Errorf("failed to save goal: %w", err)
	}
	return g, nil
}

// ContributeToGoal adds amount to the goal's current amount. The
// current amount may exceed the target, there is no clamp.
func (tr *Tracker) ContributeToGoal(ctx context.Context, id string, amount decimal.Decimal) (SavingsGoal, error) {
	if !amount.IsPositive() {
		return SavingsGoal{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Contribution amount must be greater than zero.",
		}
	}

	goal, err := tr.storage.GetGoalByID(ctx, id)
	if err != nil {
		return SavingsGoal{}, fmt.Errorf("failed to get goal: %w", err)
	}

	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	if err := tr.storage.SaveGoal(ctx, goal); err != nil {
		return SavingsGoal{}, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

func (tr *Tracker) ListGoals(ctx context.Context) ([]SavingsGoal, error) {
	goals, err := tr.storage.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	return goals, nil
}

func (tr *Tracker) DeleteGoal(ctx context.Context, id string) error {
	if err := tr.storage.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (tr *Tracker) AddRecurringExpense(ctx context.Context, req RecurringExpenseRequest) (RecurringExpense, error) {
	if req.Name == "" {
		return RecurringExpense{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Recurring expense name is required.",
		}
	}
	if !req.Amount.IsPositive() {
		return RecurringExpense{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Recurring expense amount must be greater than zero.",
		}
	}
	if req.Frequency != FrequencyMonthly && req.Frequency != FrequencyYearly {
		return RecurringExpense{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid frequency: %q.", req.Frequency),
		}
	}
	// Day-of-month only; nothing checks dueDay against the length of a
	// concrete month.
	if req.DueDay < 1 || req.DueDay > 31 {
		return RecurringExpense{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Due day must be between 1 and 31.",
		}
	}

	r := RecurringExpense{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		DueDay:    req.DueDay,
		Category:  req.Category,
	}

	if err := tr.storage.SaveRecurringExpense(ctx, r); err != nil {
		return RecurringExpense{}, fmt.Errorf("failed to save recurring expense: %w", err)
	}
	return r, nil
}

func (tr *Tracker) ListRecurringExpenses(ctx context.Context) ([]RecurringExpense, error) {
	items, err := tr.storage.ListRecurringExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring expenses: %w", err)
	}
	return items, nil
}

func (tr *Tracker) DeleteRecurringExpense(ctx context.Context, id string) error {
	if err := tr.storage.DeleteRecurringExpense(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recurring expense: %w", err)
	}
	return nil
}

func (tr *Tracker) AddDebt(ctx context.Context, req DebtRequest) (Debt, error) {
	if req.Name == "" {
		return Debt{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Debt name is required.",
		}
	}
	if !req.TotalAmount.IsPositive() {
		return Debt{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Debt total amount must be greater than zero.",
		}
	}
	if req.RemainingAmount.IsNegative() {
		return Debt{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Debt remaining amount cannot be negative.",
		}
	}

	d := Debt{
		ID:              uuid.New().String(),
		Name:            req.Name,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		InterestRate:    req.InterestRate,
		MinimumPayment:  req.MinimumPayment,
	}

	if err := tr.storage.SaveDebt(ctx, d); err != nil {
		return Debt{}, fmt.Errorf("failed to save debt: %w", err)
	}
	return d, nil
}

// PayDebt lowers the remaining amount, floored at zero, and records
// the payment as an expense transaction in the debt payment category.
func (tr *Tracker) PayDebt(ctx context.Context, id string, amount decimal.Decimal) (Debt, error) {
	if !amount.IsPositive() {
		return Debt{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Payment amount must be greater than zero.",
		}
	}

	debt, err := tr.storage.GetDebtByID(ctx, id)
	if err != nil {
		return Debt{}, fmt.Errorf("failed to get debt: %w", err)
	}

	remaining := debt.RemainingAmount.Sub(amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	debt.RemainingAmount = remaining

	if err := tr.storage.SaveDebt(ctx, debt); err != nil {
		return Debt{}, fmt.Errorf("failed to update debt: %w", err)
	}

	_, err = tr.AddTransaction(ctx, TransactionRequest{
		Amount:      amount,
		Type:        TypeExpense,
		Category:    DebtPaymentCategory,
		Description: fmt.Sprintf("Spłata: %s", debt.Name),
		Date:        time.Now().UTC().Format(DATE_LAYOUT),
	})
	if err != nil {
		return Debt{}, fmt.Errorf("debt updated but failed to record payment transaction: %w", err)
	}

	return debt, nil
}

func (tr *Tracker) ListDebts(ctx context.Context) ([]Debt, error) {
	debts, err := tr.storage.ListDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}
	return debts, nil
}

func (tr *Tracker) DeleteDebt(ctx context.Context, id string) error {
	// Transactions recorded as payments of this debt stay; there are
	// no cross-collection cascades.
	if err := tr.storage.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return nil
}

func (tr *Tracker) AddInvestment(ctx context.Context, req InvestmentRequest) (Investment, error) {
	if req.Name == "" {
		return Investment{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Investment name is required.",
		}
	}
	switch req.Type {
	case InvestmentCrypto, InvestmentStock, InvestmentRealEstate, InvestmentBond, InvestmentOther:
	default:
		return Investment{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Invalid investment type: %q.", req.Type),
		}
	}
	if !req.AmountInvested.IsPositive() {
		return Investment{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invested amount must be greater than zero.",
		}
	}
	if req.CurrentValue.IsNegative() {
		return Investment{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Current value cannot be negative.",
		}
	}
	if err := validateDate(req.Date); err != nil {
		return Investment{}, err
	}

	inv := Investment{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Type:           req.Type,
		AmountInvested: req.AmountInvested,
		CurrentValue:   req.CurrentValue,
		Date:           req.Date,
	}

	if err := tr.storage.SaveInvestment(ctx, inv); err != nil {
		return Investment{}, fmt.Errorf("failed to save investment: %w", err)
	}
	return inv, nil
}

func (tr *Tracker) UpdateInvestmentValue(ctx context.Context, id string, currentValue decimal.Decimal) (Investment, error) {
	if currentValue.IsNegative() {
		return Investment{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Current value cannot be negative.",
		}
	}

	inv, err := tr.storage.GetInvestmentByID(ctx, id)
	if err != nil {
		return Investment{}, fmt.Errorf("failed to get investment: %w", err)
	}

	inv.CurrentValue = currentValue
	if err := tr.storage.SaveInvestment(ctx, inv); err != nil {
		return Investment{}, fmt.Errorf("failed to update investment: %w", err)
	}
	return inv, nil
}

func (tr *Tracker) ListInvestments(ctx context.Context) ([]Investment, error) {
	investments, err := tr.storage.ListInvestments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}
	return investments, nil
}

func (tr *Tracker) DeleteInvestment(ctx context.Context, id string) error {
	if err := tr.storage.DeleteInvestment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	return nil
}

// Summary recomputes every aggregate from the current collection
// contents; nothing derived is stored.
func (tr *Tracker) Summary(ctx context.Context) (BudgetSummary, error) {
	snapshot, err := tr.storage.Snapshot(ctx)
	if err != nil {
		return BudgetSummary{}, fmt.Errorf("failed to read collections: %w", err)
	}

	var summary BudgetSummary
	for _, t := range snapshot.Transactions {
		if t.Type == TypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	twelve := decimal.NewFromInt(12)
	for _, r := range snapshot.RecurringExpenses {
		if r.Frequency == FrequencyMonthly {
			summary.TotalRecurringMonthly = summary.TotalRecurringMonthly.Add(r.Amount)
		} else {
			summary.TotalRecurringMonthly = summary.TotalRecurringMonthly.Add(r.Amount.Div(twelve))
		}
	}

	for _, d := range snapshot.Debts {
		summary.TotalDebt = summary.TotalDebt.Add(d.RemainingAmount)
	}

	for _, inv := range snapshot.Investments {
		summary.InvestmentValue = summary.InvestmentValue.Add(inv.CurrentValue)
		summary.InvestmentProfit = summary.InvestmentProfit.Add(inv.Profit())
	}

	return summary, nil
}

// SeedIfEmpty inserts the first-run demo records when the transaction
// collection is empty.
func (tr *Tracker) SeedIfEmpty(ctx context.Context) error {
	count, err := tr.storage.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	if count > 0 {
		return nil
	}

	today := time.Now().UTC().Format(DATE_LAYOUT)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(DATE_LAYOUT)

	seedTransactions := []Transaction{
		{ID: uuid.New().String(), Amount: decimal.NewFromInt(5000), Type: TypeIncome, Category: "Wypłata", Description: "Wynagrodzenie miesięczne", Date: today},
		{ID: uuid.New().String(), Amount: decimal.NewFromInt(250), Type: TypeExpense, Category: "Jedzenie", Description: "Zakupy spożywcze", Date: today},
		{ID: uuid.New().String(), Amount: decimal.NewFromInt(120), Type: TypeExpense, Category: "Transport", Description: "Paliwo", Date: yesterday},
	}
	seedGoals := []SavingsGoal{
		{ID: uuid.New().String(), Name: "Wakacje", TargetAmount: decimal.NewFromInt(5000), CurrentAmount: decimal.NewFromInt(1200), Color: "#10b981"},
		{ID: uuid.New().String(), Name: "Nowy Laptop", TargetAmount: decimal.NewFromInt(4000), CurrentAmount: decimal.NewFromInt(800), Color: "#3b82f6"},
	}

	for _, t := range seedTransactions {
		if err := tr.storage.SaveTransaction(ctx, t); err != nil {
			return fmt.Errorf("failed to seed transactions: %w", err)
		}
	}
	for _, g := range seedGoals {
		if err := tr.storage.SaveGoal(ctx, g); err != nil {
			return fmt.Errorf("failed to seed goals: %w", err)
		}
	}
	return nil
}

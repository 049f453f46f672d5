package finance

import (
	"context"
	"testing"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Mocks

type MockStorage struct {
	transactions      []Transaction
	goals             []SavingsGoal
	recurringExpenses []RecurringExpense
	debts             []Debt
	investments       []Investment
}

func (m *MockStorage) SaveTransaction(ctx context.Context, t Transaction) error {
	for i := range m.transactions {
		if m.transactions[i].ID == t.ID {
			m.transactions[i] = t
			return nil
		}
	}
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *MockStorage) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	for _, t := range m.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return Transaction{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "The transaction does not exist."}
}

func (m *MockStorage) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return append([]Transaction(nil), m.transactions...), nil
}

func (m *MockStorage) DeleteTransaction(ctx context.Context, id string) error {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStorage) CountTransactions(ctx context.Context) (int, error) {
	return len(m.transactions), nil
}

func (m *MockStorage) SaveGoal(ctx context.Context, g SavingsGoal) error {
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			m.goals[i] = g
			return nil
		}
	}
	m.goals = append(m.goals, g)
	return nil
}

func (m *MockStorage) GetGoalByID(ctx context.Context, id string) (SavingsGoal, error) {
	for _, g := range m.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return SavingsGoal{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "The goal does not exist."}
}

func (m *MockStorage) ListGoals(ctx context.Context) ([]SavingsGoal, error) {
	return append([]SavingsGoal(nil), m.goals...), nil
}

func (m *MockStorage) DeleteGoal(ctx context.Context, id string) error {
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStorage) SaveRecurringExpense(ctx context.Context, r RecurringExpense) error {
	m.recurringExpenses = append(m.recurringExpenses, r)
	return nil
}

func (m *MockStorage) ListRecurringExpenses(ctx context.Context) ([]RecurringExpense, error) {
	return append([]RecurringExpense(nil), m.recurringExpenses...), nil
}

func (m *MockStorage) DeleteRecurringExpense(ctx context.Context, id string) error {
	return nil
}

func (m *MockStorage) SaveDebt(ctx context.Context, d Debt) error {
	for i := range m.debts {
		if m.debts[i].ID == d.ID {
			m.debts[i] = d
			return nil
		}
	}
	m.debts = append(m.debts, d)
	return nil
}

func (m *MockStorage) GetDebtByID(ctx context.Context, id string) (Debt, error) {
	for _, d := range m.debts {
		if d.ID == id {
			return d, nil
		}
	}
	return Debt{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "The debt does not exist."}
}

func (m *MockStorage) ListDebts(ctx context.Context) ([]Debt, error) {
	return append([]Debt(nil), m.debts...), nil
}

func (m *MockStorage) DeleteDebt(ctx context.Context, id string) error {
	return nil
}

func (m *MockStorage) SaveInvestment(ctx context.Context, inv Investment) error {
	for i := range m.investments {
		if m.investments[i].ID == inv.ID {
			m.investments[i] = inv
			return nil
		}
	}
	m.investments = append(m.investments, inv)
	return nil
}

func (m *MockStorage) GetInvestmentByID(ctx context.Context, id string) (Investment, error) {
	for _, inv := range m.investments {
		if inv.ID == id {
			return inv, nil
		}
	}
	return Investment{}, appErrors.ErrorResponse{Code: appErrors.ErrNotFound, Message: "The investment does not exist."}
}

func (m *MockStorage) ListInvestments(ctx context.Context) ([]Investment, error) {
	return append([]Investment(nil), m.investments...), nil
}

func (m *MockStorage) DeleteInvestment(ctx context.Context, id string) error {
	return nil
}

func (m *MockStorage) Snapshot(ctx context.Context) (Snapshot, error) {
	return Snapshot{
		Transactions:      append([]Transaction(nil), m.transactions...),
		Goals:             append([]SavingsGoal(nil), m.goals...),
		RecurringExpenses: append([]RecurringExpense(nil), m.recurringExpenses...),
		Debts:             append([]Debt(nil), m.debts...),
		Investments:       append([]Investment(nil), m.investments...),
	}, nil
}

func (m *MockStorage) ReplaceAll(ctx context.Context, snapshot Snapshot) error {
	m.transactions = snapshot.Transactions
	m.goals = snapshot.Goals
	m.recurringExpenses = snapshot.RecurringExpenses
	m.debts = snapshot.Debts
	m.investments = snapshot.Investments
	return nil
}

func (m *MockStorage) GetStorageType() string {
	return "mock"
}

// Tests

func TestAddTransaction(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       TransactionRequest
		wantErr     bool
		expectedMsg string
	}{
		{
			name:        "Fail - Zero Amount",
			input:       TransactionRequest{Amount: decimal.Zero, Type: TypeExpense, Category: "Jedzenie", Date: "2026-03-01"},
			wantErr:     true,
			expectedMsg: "Transaction amount must be greater than zero.",
		},
		{
			name:        "Fail - Negative Amount",
			input:       TransactionRequest{Amount: decimal.NewFromInt(-5), Type: TypeExpense, Category: "Jedzenie", Date: "2026-03-01"},
			wantErr:     true,
			expectedMsg: "Transaction amount must be greater than zero.",
		},
		{
			name:        "Fail - Unknown Type",
			input:       TransactionRequest{Amount: decimal.NewFromInt(10), Type: "transfer", Category: "Jedzenie", Date: "2026-03-01"},
			wantErr:     true,
			expectedMsg: `Invalid transaction type: "transfer".`,
		},
		{
			name:        "Fail - Missing Category",
			input:       TransactionRequest{Amount: decimal.NewFromInt(10), Type: TypeExpense, Date: "2026-03-01"},
			wantErr:     true,
			expectedMsg: "Transaction category is required.",
		},
		{
			name:        "Fail - Bad Date",
			input:       TransactionRequest{Amount: decimal.NewFromInt(10), Type: TypeExpense, Category: "Jedzenie", Date: "01/03/2026"},
			wantErr:     true,
			expectedMsg: `Invalid date "01/03/2026", expected format: YYYY-MM-DD.`,
		},
		{
			name:    "Success - Valid Expense",
			input:   TransactionRequest{Amount: decimal.NewFromFloat(25.50), Type: TypeExpense, Category: "Jedzenie", Description: "obiad", Date: "2026-03-01"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := tracker.AddTransaction(ctx, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got none")
				}
				if appErr, ok := err.(appErrors.ErrorResponse); ok {
					if appErr.Message != tt.expectedMsg {
						t.Errorf("Got message %q, want %q", appErr.Message, tt.expectedMsg)
					}
				} else {
					t.Errorf("expected ErrorResponse, got %T", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.ID == "" {
				t.Error("expected a generated ID")
			}
		})
	}
}

func TestListTransactionsOrder(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	dates := []string{"2026-01-10", "2026-03-05", "2026-02-20"}
	for _, d := range dates {
		_, err := tracker.AddTransaction(ctx, TransactionRequest{
			Amount:   decimal.NewFromInt(10),
			Type:     TypeExpense,
			Category: "Jedzenie",
			Date:     d,
		})
		require.NoError(t, err)
	}

	listed, err := tracker.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "2026-03-05", listed[0].Date)
	require.Equal(t, "2026-02-20", listed[1].Date)
	require.Equal(t, "2026-01-10", listed[2].Date)
}

func TestContributeToGoal(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	goal, err := tracker.AddGoal(ctx, GoalRequest{
		Name:          "Wakacje",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(900),
		Color:         "#10b981",
	})
	require.NoError(t, err)

	// Contributions past the target are kept, nothing clamps.
	updated, err := tracker.ContributeToGoal(ctx, goal.ID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.True(t, updated.CurrentAmount.Equal(decimal.NewFromInt(1400)))

	_, err = tracker.ContributeToGoal(ctx, goal.ID, decimal.Zero)
	require.Error(t, err)

	_, err = tracker.ContributeToGoal(ctx, "missing-id", decimal.NewFromInt(10))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))
}

func TestPayDebt(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	debt, err := tracker.AddDebt(ctx, DebtRequest{
		Name:            "Kredyt samochodowy",
		TotalAmount:     decimal.NewFromInt(10000),
		RemainingAmount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	// Overpayment floors the remaining amount at zero.
	paid, err := tracker.PayDebt(ctx, debt.ID, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.True(t, paid.RemainingAmount.IsZero())

	// The payment is recorded as an expense transaction.
	transactions, err := tracker.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, TypeExpense, transactions[0].Type)
	require.Equal(t, DebtPaymentCategory, transactions[0].Category)
	require.Equal(t, "Spłata: Kredyt samochodowy", transactions[0].Description)
	require.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestAddRecurringExpenseValidation(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RecurringExpenseRequest
		wantErr bool
	}{
		{
			name:    "Fail - Bad Frequency",
			input:   RecurringExpenseRequest{Name: "Netflix", Amount: decimal.NewFromInt(29), Frequency: "weekly", DueDay: 5},
			wantErr: true,
		},
		{
			name:    "Fail - Due Day Zero",
			input:   RecurringExpenseRequest{Name: "Netflix", Amount: decimal.NewFromInt(29), Frequency: FrequencyMonthly, DueDay: 0},
			wantErr: true,
		},
		{
			name:    "Fail - Due Day Over 31",
			input:   RecurringExpenseRequest{Name: "Netflix", Amount: decimal.NewFromInt(29), Frequency: FrequencyMonthly, DueDay: 32},
			wantErr: true,
		},
		{
			name:    "Success - Day 31 Allowed",
			input:   RecurringExpenseRequest{Name: "Czynsz", Amount: decimal.NewFromInt(1800), Frequency: FrequencyMonthly, DueDay: 31, Category: "Mieszkanie"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracker.AddRecurringExpense(ctx, tt.input)
			if tt.wantErr && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAddInvestmentValidation(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	_, err := tracker.AddInvestment(ctx, InvestmentRequest{
		Name:           "ETF",
		Type:           "commodity",
		AmountInvested: decimal.NewFromInt(100),
		CurrentValue:   decimal.NewFromInt(100),
		Date:           "2026-01-01",
	})
	require.Error(t, err)

	inv, err := tracker.AddInvestment(ctx, InvestmentRequest{
		Name:           "ETF",
		Type:           InvestmentStock,
		AmountInvested: decimal.NewFromInt(100),
		CurrentValue:   decimal.NewFromInt(130),
		Date:           "2026-01-01",
	})
	require.NoError(t, err)
	require.True(t, inv.Profit().Equal(decimal.NewFromInt(30)))

	updated, err := tracker.UpdateInvestmentValue(ctx, inv.ID, decimal.NewFromInt(90))
	require.NoError(t, err)
	require.True(t, updated.Profit().Equal(decimal.NewFromInt(-10)))
}

func TestSummary(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	_, err := tracker.AddTransaction(ctx, TransactionRequest{Amount: decimal.NewFromInt(5000), Type: TypeIncome, Category: "Wypłata", Date: "2026-03-01"})
	require.NoError(t, err)
	_, err = tracker.AddTransaction(ctx, TransactionRequest{Amount: decimal.NewFromInt(1200), Type: TypeExpense, Category: "Mieszkanie", Date: "2026-03-02"})
	require.NoError(t, err)

	_, err = tracker.AddRecurringExpense(ctx, RecurringExpenseRequest{Name: "Czynsz", Amount: decimal.NewFromInt(1800), Frequency: FrequencyMonthly, DueDay: 10, Category: "Mieszkanie"})
	require.NoError(t, err)
	_, err = tracker.AddRecurringExpense(ctx, RecurringExpenseRequest{Name: "Ubezpieczenie", Amount: decimal.NewFromInt(1200), Frequency: FrequencyYearly, DueDay: 1, Category: "Rachunki"})
	require.NoError(t, err)

	_, err = tracker.AddDebt(ctx, DebtRequest{Name: "Karta", TotalAmount: decimal.NewFromInt(4000), RemainingAmount: decimal.NewFromInt(2500)})
	require.NoError(t, err)

	_, err = tracker.AddInvestment(ctx, InvestmentRequest{Name: "ETF", Type: InvestmentStock, AmountInvested: decimal.NewFromInt(100), CurrentValue: decimal.NewFromInt(130), Date: "2026-01-01"})
	require.NoError(t, err)

	summary, err := tracker.Summary(ctx)
	require.NoError(t, err)

	require.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(5000)))
	require.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(1200)))
	require.True(t, summary.Balance.Equal(decimal.NewFromInt(3800)))
	// 1800 monthly + 1200/12 yearly
	require.True(t, summary.TotalRecurringMonthly.Equal(decimal.NewFromInt(1900)))
	require.True(t, summary.TotalDebt.Equal(decimal.NewFromInt(2500)))
	require.True(t, summary.InvestmentValue.Equal(decimal.NewFromInt(130)))
	require.True(t, summary.InvestmentProfit.Equal(decimal.NewFromInt(30)))
}

func TestSeedIfEmpty(t *testing.T) {
	mockStore := &MockStorage{}
	tracker := NewTracker(mockStore)
	ctx := context.Background()

	require.NoError(t, tracker.SeedIfEmpty(ctx))
	require.Len(t, mockStore.transactions, 3)
	require.Len(t, mockStore.goals, 2)

	// A second call must not duplicate the seed data.
	require.NoError(t, tracker.SeedIfEmpty(ctx))
	require.Len(t, mockStore.transactions, 3)
	require.Len(t, mockStore.goals, 2)
}

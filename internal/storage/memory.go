package storage

import (
	"context"
	"sync"

	"github.com/D1992S/budzet/internal/finance"
)

// MemoryStorage keeps everything in process memory. It backs the tests
// and the DB_DRIVER=memory mode; data is gone when the process exits.
type MemoryStorage struct {
	mu                sync.RWMutex
	transactions      []finance.Transaction
	goals             []finance.SavingsGoal
	recurringExpenses []finance.RecurringExpense
	debts             []finance.Debt
	investments       []finance.Investment
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) GetStorageType() string {
	return "memory"
}

// --- TRANSACTIONS --- //

func (m *MemoryStorage) SaveTransaction(ctx context.Context, t finance.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == t.ID {
			m.transactions[i] = t
			return nil
		}
	}
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *MemoryStorage) GetTransactionByID(ctx context.Context, id string) (finance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return finance.Transaction{}, notFoundError("transaction")
}

func (m *MemoryStorage) ListTransactions(ctx context.Context) ([]finance.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]finance.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out, nil
}

func (m *MemoryStorage) DeleteTransaction(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemoryStorage) CountTransactions(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions), nil
}

// --- GOALS --- //

func (m *MemoryStorage) SaveGoal(ctx context.Context, g finance.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			m.goals[i] = g
			return nil
		}
	}
	m.goals = append(m.goals, g)
	return nil
}

func (m *MemoryStorage) GetGoalByID(ctx context.Context, id string) (finance.SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return finance.SavingsGoal{}, notFoundError("goal")
}

func (m *MemoryStorage) ListGoals(ctx context.Context) ([]finance.SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]finance.SavingsGoal, len(m.goals))
	copy(out, m.goals)
	return out, nil
}

func (m *MemoryStorage) DeleteGoal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- RECURRING EXPENSES --- //

func (m *MemoryStorage) SaveRecurringExpense(ctx context.Context, r finance.RecurringExpense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recurringExpenses {
		if m.recurringExpenses[i].ID == r.ID {
			m.recurringExpenses[i] = r
			return nil
		}
	}
	m.recurringExpenses = append(m.recurringExpenses, r)
	return nil
}

func (m *MemoryStorage) ListRecurringExpenses(ctx context.Context) ([]finance.RecurringExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]finance.RecurringExpense, len(m.recurringExpenses))
	copy(out, m.recurringExpenses)
	return out, nil
}

func (m *MemoryStorage) DeleteRecurringExpense(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recurringExpenses {
		if m.recurringExpenses[i].ID == id {
			m.recurringExpenses = append(m.recurringExpenses[:i], m.recurringExpenses[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- DEBTS --- //

func (m *MemoryStorage) SaveDebt(ctx context.Context, d finance.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.debts {
		if m.debts[i].ID == d.ID {
			m.debts[i] = d
			return nil
		}
	}
	m.debts = append(m.debts, d)
	return nil
}

func (m *MemoryStorage) GetDebtByID(ctx context.Context, id string) (finance.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.debts {
		if d.ID == id {
			return d, nil
		}
	}
	return finance.Debt{}, notFoundError("debt")
}

func (m *MemoryStorage) ListDebts(ctx context.Context) ([]finance.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]finance.Debt, len(m.debts))
	copy(out, m.debts)
	return out, nil
}

func (m *MemoryStorage) DeleteDebt(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.debts {
		if m.debts[i].ID == id {
			m.debts = append(m.debts[:i], m.debts[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- INVESTMENTS --- //

func (m *MemoryStorage) SaveInvestment(ctx context.Context, inv finance.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.investments {
		if m.investments[i].ID == inv.ID {
			m.investments[i] = inv
			return nil
		}
	}
	m.investments = append(m.investments, inv)
	return nil
}

func (m *MemoryStorage) GetInvestmentByID(ctx context.Context, id string) (finance.Investment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.investments {
		if inv.ID == id {
			return inv, nil
		}
	}
	return finance.Investment{}, notFoundError("investment")
}

func (m *MemoryStorage) ListInvestments(ctx context.Context) ([]finance.Investment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]finance.Investment, len(m.investments))
	copy(out, m.investments)
	return out, nil
}

func (m *MemoryStorage) DeleteInvestment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.investments {
		if m.investments[i].ID == id {
			m.investments = append(m.investments[:i], m.investments[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- SNAPSHOT / REPLACE --- //

func (m *MemoryStorage) Snapshot(ctx context.Context) (finance.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := finance.Snapshot{
		Transactions:      make([]finance.Transaction, len(m.transactions)),
		Goals:             make([]finance.SavingsGoal, len(m.goals)),
		RecurringExpenses: make([]finance.RecurringExpense, len(m.recurringExpenses)),
		Debts:             make([]finance.Debt, len(m.debts)),
		Investments:       make([]finance.Investment, len(m.investments)),
	}
	copy(snapshot.Transactions, m.transactions)
	copy(snapshot.Goals, m.goals)
	copy(snapshot.RecurringExpenses, m.recurringExpenses)
	copy(snapshot.Debts, m.debts)
	copy(snapshot.Investments, m.investments)
	return snapshot, nil
}

// ReplaceAll swaps all five collections under one lock, so readers see
// either the old data set or the new one, never a mix.
func (m *MemoryStorage) ReplaceAll(ctx context.Context, snapshot finance.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append([]finance.Transaction(nil), snapshot.Transactions...)
	m.goals = append([]finance.SavingsGoal(nil), snapshot.Goals...)
	m.recurringExpenses = append([]finance.RecurringExpense(nil), snapshot.RecurringExpenses...)
	m.debts = append([]finance.Debt(nil), snapshot.Debts...)
	m.investments = append([]finance.Investment(nil), snapshot.Investments...)
	return nil
}

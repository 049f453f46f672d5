package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/internal/config"
	"github.com/D1992S/budzet/internal/contextutil"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/logging"
	"github.com/shopspring/decimal"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the configured database, creating it if absent, and
// migrates it to the latest schema version before anything may read or
// write. An unreachable medium surfaces as STORAGE UNAVAILABLE, a
// failed migration step as SCHEMA UPGRADE FAILED with the store left
// at its prior version.
func Init(cfg *config.Config) (*sql.DB, error) {
	d, err := dialectFor(cfg.DBDriver)
	if err != nil {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrStorageUnavailable,
			Message: err.Error(),
		}
	}

	var dsn string
	switch cfg.DBDriver {
	case "mysql":
		dsn = cfg.DBDSN
	default:
		dsn = cfg.DBPath
	}

	logging.Logger.Infof("opening %s store...", d.Name())
	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrStorageUnavailable,
			Message: fmt.Sprintf("Failed to open database handle: %v.", err),
		}
	}

	connected := false
	for i := 0; i < 5; i++ {
		if err := db.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("database not ready, retrying... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if !connected {
		db.Close()
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrStorageUnavailable,
			Message: "Database unreachable after multiple attempts.",
		}
	}

	logging.Logger.Info("running migrations...")
	if err := runMigrations(db, d, LatestSchemaVersion); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

type SQLStorage struct {
	db      *sql.DB
	dialect dialect
}

func NewSQLStorage(db *sql.DB, driver string) (*SQLStorage, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &SQLStorage{db: db, dialect: d}, nil
}

func (s *SQLStorage) GetStorageType() string {
	return s.dialect.Name()
}

type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func internalError(message string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: message,
	}
}

func notFoundError(what string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: fmt.Sprintf("The %s does not exist.", what),
	}
}

func parseAmount(raw string, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, internalError(fmt.Sprintf("Stored %s is not a valid amount.", field))
	}
	return value, nil
}

func decimalPtrToNull(v *decimal.Decimal) sql.NullString {
	if v == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{Valid: true, String: v.String()}
}

func nullToDecimalPtr(ns sql.NullString, field string) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	value, err := parseAmount(ns.String, field)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// nextSeq hands out the insertion-order position for a new row. A
// single session writes at a time, so a read-then-insert is enough.
func nextSeq(ctx context.Context, e sqlExecutor, table string) (int64, error) {
	var seq int64
	err := e.QueryRowContext(ctx, fmt.Sprintf("SELECT COALESCE(MAX(seq), 0) + 1 FROM %s", table)).Scan(&seq)
	return seq, err
}

func (s *SQLStorage) rowExists(ctx context.Context, table string, id string) (bool, error) {
	var dummy int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStorage) count(ctx context.Context, table string) (int, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to count rows of %s | Error: %v", traceID, table, err)
		return 0, internalError("Failed to count records, try again later.")
	}
	return count, nil
}

func (s *SQLStorage) delete(ctx context.Context, table string, id string) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	// Deleting an absent id is a no-op.
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete row from %s | Error: %v", traceID, table, err)
		return internalError("Failed to delete the record, try again later.")
	}
	return nil
}

// --- TRANSACTIONS --- //

func insertTransaction(ctx context.Context, e sqlExecutor, t finance.Transaction, seq int64) error {
	query := "INSERT INTO transactions (id, seq, amount, type, category, description, date) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := e.ExecContext(ctx, query, t.ID, seq, t.Amount.String(), t.Type, t.Category, t.Description, t.Date)
	return err
}

func (s *SQLStorage) SaveTransaction(ctx context.Context, t finance.Transaction) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	exists, err := s.rowExists(ctx, "transactions", t.ID)
	if err == nil && exists {
		query := "UPDATE transactions SET amount = ?, type = ?, category = ?, description = ?, date = ? WHERE id = ?"
		_, err = s.db.ExecContext(ctx, query, t.Amount.String(), t.Type, t.Category, t.Description, t.Date, t.ID)
	} else if err == nil {
		var seq int64
		seq, err = nextSeq(ctx, s.db, "transactions")
		if err == nil {
			err = insertTransaction(ctx, s.db, t, seq)
		}
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save transaction in Storage.SaveTransaction() | Error: %v", traceID, err)
		return internalError("Failed to save the transaction, try again later.")
	}
	return nil
}

func (s *SQLStorage) GetTransactionByID(ctx context.Context, id string) (finance.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, amount, type, category, description, date FROM transactions WHERE id = ?"
	var row dbTransaction
	err := s.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.Amount, &row.Type, &row.Category, &row.Description, &row.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Transaction{}, notFoundError("transaction")
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetTransactionByID() | Error: %v", traceID, err)
		return finance.Transaction{}, internalError("Failed to get the transaction, try again later.")
	}

	amount, err := parseAmount(row.Amount, "transaction amount")
	if err != nil {
		return finance.Transaction{}, err
	}
	return finance.Transaction{
		ID:          row.ID,
		Amount:      amount,
		Type:        row.Type,
		Category:    row.Category,
		Description: row.Description,
		Date:        row.Date,
	}, nil
}

func (s *SQLStorage) ListTransactions(ctx context.Context) ([]finance.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, amount, type, category, description, date FROM transactions ORDER BY seq"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list transactions in Storage.ListTransactions() | Error: %v", traceID, err)
		return nil, internalError("Failed to get transactions, try again later.")
	}
	defer rows.Close()

	var transactions []finance.Transaction
	for rows.Next() {
		var row dbTransaction
		if err := rows.Scan(&row.ID, &row.Amount, &row.Type, &row.Category, &row.Description, &row.Date); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.ListTransactions() | Error: %v", traceID, err)
			return nil, internalError("Failed to get transactions, try again later.")
		}
		amount, err := parseAmount(row.Amount, "transaction amount")
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, finance.Transaction{
			ID:          row.ID,
			Amount:      amount,
			Type:        row.Type,
			Category:    row.Category,
			Description: row.Description,
			Date:        row.Date,
		})
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.ListTransactions() | Error: %v", traceID, err)
		return nil, internalError("Failed to get transactions, try again later.")
	}
	return transactions, nil
}

func (s *SQLStorage) DeleteTransaction(ctx context.Context, id string) error {
	return s.delete(ctx, "transactions", id)
}

func (s *SQLStorage) CountTransactions(ctx context.Context) (int, error) {
	return s.count(ctx, "transactions")
}

// --- GOALS --- //

func insertGoal(ctx context.Context, e sqlExecutor, g finance.SavingsGoal, seq int64) error {
	query := "INSERT INTO goals (id, seq, name, target_amount, current_amount, color) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := e.ExecContext(ctx, query, g.ID, seq, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.Color)
	return err
}

func (s *SQLStorage) SaveGoal(ctx context.Context, g finance.SavingsGoal) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	exists, err := s.rowExists(ctx, "goals", g.ID)
	if err == nil && exists {
		query := "UPDATE goals SET name = ?, target_amount = ?, current_amount = ?, color = ? WHERE id = ?"
		_, err = s.db.ExecContext(ctx, query, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.Color, g.ID)
	} else if err == nil {
		var seq int64
		seq, err = nextSeq(ctx, s.db, "goals")
		if err == nil {
			err = insertGoal(ctx, s.db, g, seq)
		}
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save goal in Storage.SaveGoal() | Error: %v", traceID, err)
		return internalError("Failed to save the goal, try again later.")
	}
	return nil
}

func (s *SQLStorage) GetGoalByID(ctx context.Context, id string) (finance.SavingsGoal, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, target_amount, current_amount, color FROM goals WHERE id = ?"
	var row dbGoal
	err := s.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.Name, &row.TargetAmount, &row.CurrentAmount, &row.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.SavingsGoal{}, notFoundError("goal")
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetGoalByID() | Error: %v", traceID, err)
		return finance.SavingsGoal{}, internalError("Failed to get the goal, try again later.")
	}
	return goalFromRow(row)
}

func goalFromRow(row dbGoal) (finance.SavingsGoal, error) {
	target, err := parseAmount(row.TargetAmount, "goal target amount")
	if err != nil {
		return finance.SavingsGoal{}, err
	}
	current, err := parseAmount(row.CurrentAmount, "goal current amount")
	if err != nil {
		return finance.SavingsGoal{}, err
	}
	return finance.SavingsGoal{
		ID:            row.ID,
		Name:          row.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Color:         row.Color,
	}, nil
}

func (s *SQLStorage) ListGoals(ctx context.Context) ([]finance.SavingsGoal, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, target_amount, current_amount, color FROM goals ORDER BY seq")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list goals in Storage.ListGoals() | Error: %v", traceID, err)
		return nil, internalError("Failed to get goals, try again later.")
	}
	defer rows.Close()

	var goals []finance.SavingsGoal
	for rows.Next() {
		var row dbGoal
		if err := rows.Scan(&row.ID, &row.Name, &row.TargetAmount, &row.CurrentAmount, &row.Color); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.ListGoals() | Error: %v", traceID, err)
			return nil, internalError("Failed to get goals, try again later.")
		}
		goal, err := goalFromRow(row)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.ListGoals() | Error: %v", traceID, err)
		return nil, internalError("Failed to get goals, try again later.")
	}
	return goals, nil
}

func (s *SQLStorage) DeleteGoal(ctx context.Context, id string) error {
	return s.delete(ctx, "goals", id)
}

// --- RECURRING EXPENSES --- //

func insertRecurringExpense(ctx context.Context, e sqlExecutor, r finance.RecurringExpense, seq int64) error {
	query := "INSERT INTO recurring_expenses (id, seq, name, amount, frequency, due_day, category) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := e.ExecContext(ctx, query, r.ID, seq, r.Name, r.Amount.String(), r.Frequency, r.DueDay, r.Category)
	return err
}

func (s *SQLStorage) SaveRecurringExpense(ctx context.Context, r finance.RecurringExpense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	exists, err := s.rowExists(ctx, "recurring_expenses", r.ID)
	if err == nil && exists {
		query := "UPDATE recurring_expenses SET name = ?, amount = ?, frequency = ?, due_day = ?, category = ? WHERE id = ?"
		_, err = s.db.ExecContext(ctx, query, r.Name, r.Amount.String(), r.Frequency, r.DueDay, r.Category, r.ID)
	} else if err == nil {
		var seq int64
		seq, err = nextSeq(ctx, s.db, "recurring_expenses")
		if err == nil {
			err = insertRecurringExpense(ctx, s.db, r, seq)
		}
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save recurring expense in Storage.SaveRecurringExpense() | Error: %v", traceID, err)
		return internalError("Failed to save the recurring expense, try again later.")
	}
	return nil
}

func (s *SQLStorage) ListRecurringExpenses(ctx context.Context) ([]finance.RecurringExpense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, amount, frequency, due_day, category FROM recurring_expenses ORDER BY seq")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list recurring expenses in Storage.ListRecurringExpenses() | Error: %v", traceID, err)
		return nil, internalError("Failed to get recurring expenses, try again later.")
	}
	defer rows.Close()

	var items []finance.RecurringExpense
	for rows.Next() {
		var row dbRecurringExpense
		if err := rows.Scan(&row.ID, &row.Name, &row.Amount, &row.Frequency, &row.DueDay, &row.Category); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.ListRecurringExpenses() | Error: %v", traceID, err)
			return nil, internalError("Failed to get recurring expenses, try again later.")
		}
		amount, err := parseAmount(row.Amount, "recurring expense amount")
		if err != nil {
			return nil, err
		}
		items = append(items, finance.RecurringExpense{
			ID:        row.ID,
			Name:      row.Name,
			Amount:    amount,
			Frequency: row.Frequency,
			DueDay:    row.DueDay,
			Category:  row.Category,
		})
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.ListRecurringExpenses() | Error: %v", traceID, err)
		return nil, internalError("Failed to get recurring expenses, try again later.")
	}
	return items, nil
}

func (s *SQLStorage) DeleteRecurringExpense(ctx context.Context, id string) error {
	return s.delete(ctx, "recurring_expenses", id)
}

// --- DEBTS --- //

func insertDebt(ctx context.Context, e sqlExecutor, d finance.Debt, seq int64) error {
	query := "INSERT INTO debts (id, seq, name, total_amount, remaining_amount, interest_rate, minimum_payment) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := e.ExecContext(ctx, query, d.ID, seq, d.Name, d.TotalAmount.String(), d.RemainingAmount.String(), decimalPtrToNull(d.InterestRate), decimalPtrToNull(d.MinimumPayment))
	return err
}

func (s *SQLStorage) SaveDebt(ctx context.Context, d finance.Debt) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	exists, err := s.rowExists(ctx, "debts", d.ID)
	if err == nil && exists {
		query := "UPDATE debts SET name = ?, total_amount = ?, remaining_amount = ?, interest_rate = ?, minimum_payment = ? WHERE id = ?"
		_, err = s.db.ExecContext(ctx, query, d.Name, d.TotalAmount.String(), d.RemainingAmount.String(), decimalPtrToNull(d.InterestRate), decimalPtrToNull(d.MinimumPayment), d.ID)
	} else if err == nil {
		var seq int64
		seq, err = nextSeq(ctx, s.db, "debts")
		if err == nil {
			err = insertDebt(ctx, s.db, d, seq)
		}
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save debt in Storage.SaveDebt() | Error: %v", traceID, err)
		return internalError("Failed to save the debt, try again later.")
	}
	return nil
}

func debtFromRow(row dbDebt) (finance.Debt, error) {
	total, err := parseAmount(row.TotalAmount, "debt total amount")
	if err != nil {
		return finance.Debt{}, err
	}
	remaining, err := parseAmount(row.RemainingAmount, "debt remaining amount")
	if err != nil {
		return finance.Debt{}, err
	}
	interestRate, err := nullToDecimalPtr(row.InterestRate, "debt interest rate")
	if err != nil {
		return finance.Debt{}, err
	}
	minimumPayment, err := nullToDecimalPtr(row.MinimumPayment, "debt minimum payment")
	if err != nil {
		return finance.Debt{}, err
	}
	return finance.Debt{
		ID:              row.ID,
		Name:            row.Name,
		TotalAmount:     total,
		RemainingAmount: remaining,
		InterestRate:    interestRate,
		MinimumPayment:  minimumPayment,
	}, nil
}

func (s *SQLStorage) GetDebtByID(ctx context.Context, id string) (finance.Debt, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, total_amount, remaining_amount, interest_rate, minimum_payment FROM debts WHERE id = ?"
	var row dbDebt
	err := s.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.Name, &row.TotalAmount, &row.RemainingAmount, &row.InterestRate, &row.MinimumPayment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Debt{}, notFoundError("debt")
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetDebtByID() | Error: %v", traceID, err)
		return finance.Debt{}, internalError("Failed to get the debt, try again later.")
	}
	return debtFromRow(row)
}

func (s *SQLStorage) ListDebts(ctx context.Context) ([]finance.Debt, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, total_amount, remaining_amount, interest_rate, minimum_payment FROM debts ORDER BY seq")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list debts in Storage.ListDebts() | Error: %v", traceID, err)
		return nil, internalError("Failed to get debts, try again later.")
	}
	defer rows.Close()

	var debts []finance.Debt
	for rows.Next() {
		var row dbDebt
		if err := rows.Scan(&row.ID, &row.Name, &row.TotalAmount, &row.RemainingAmount, &row.InterestRate, &row.MinimumPayment); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.ListDebts() | Error: %v", traceID, err)
			return nil, internalError("Failed to get debts, try again later.")
		}
		debt, err := debtFromRow(row)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.ListDebts() | Error: %v", traceID, err)
		return nil, internalError("Failed to get debts, try again later.")
	}
	return debts, nil
}

func (s *SQLStorage) DeleteDebt(ctx context.Context, id string) error {
	return s.delete(ctx, "debts", id)
}

// --- INVESTMENTS --- //

func insertInvestment(ctx context.Context, e sqlExecutor, inv finance.Investment, seq int64) error {
	query := "INSERT INTO investments (id, seq, name, type, amount_invested, current_value, date) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := e.ExecContext(ctx, query, inv.ID, seq, inv.Name, inv.Type, inv.AmountInvested.String(), inv.CurrentValue.String(), inv.Date)
	return err
}

func (s *SQLStorage) SaveInvestment(ctx context.Context, inv finance.Investment) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	exists, err := s.rowExists(ctx, "investments", inv.ID)
	if err == nil && exists {
		query := "UPDATE investments SET name = ?, type = ?, amount_invested = ?, current_value = ?, date = ? WHERE id = ?"
		_, err = s.db.ExecContext(ctx, query, inv.Name, inv.Type, inv.AmountInvested.String(), inv.CurrentValue.String(), inv.Date, inv.ID)
	} else if err == nil {
		var seq int64
		seq, err = nextSeq(ctx, s.db, "investments")
		if err == nil {
			err = insertInvestment(ctx, s.db, inv, seq)
		}
	}
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save investment in Storage.SaveInvestment() | Error: %v", traceID, err)
		return internalError("Failed to save the investment, try again later.")
	}
	return nil
}

func investmentFromRow(row dbInvestment) (finance.Investment, error) {
	invested, err := parseAmount(row.AmountInvested, "invested amount")
	if err != nil {
		return finance.Investment{}, err
	}
	current, err := parseAmount(row.CurrentValue, "investment current value")
	if err != nil {
		return finance.Investment{}, err
	}
	return finance.Investment{
		ID:             row.ID,
		Name:           row.Name,
		Type:           row.Type,
		AmountInvested: invested,
		CurrentValue:   current,
		Date:           row.Date,
	}, nil
}

func (s *SQLStorage) GetInvestmentByID(ctx context.Context, id string) (finance.Investment, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, name, type, amount_invested, current_value, date FROM investments WHERE id = ?"
	var row dbInvestment
	err := s.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.Name, &row.Type, &row.AmountInvested, &row.CurrentValue, &row.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return finance.Investment{}, notFoundError("investment")
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetInvestmentByID() | Error: %v", traceID, err)
		return finance.Investment{}, internalError("Failed to get the investment, try again later.")
	}
	return investmentFromRow(row)
}

func (s *SQLStorage) ListInvestments(ctx context.Context) ([]finance.Investment, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, type, amount_invested, current_value, date FROM investments ORDER BY seq")
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list investments in Storage.ListInvestments() | Error: %v", traceID, err)
		return nil, internalError("Failed to get investments, try again later.")
	}
	defer rows.Close()

	var investments []finance.Investment
	for rows.Next() {
		var row dbInvestment
		if err := rows.Scan(&row.ID, &row.Name, &row.Type, &row.AmountInvested, &row.CurrentValue, &row.Date); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.ListInvestments() | Error: %v", traceID, err)
			return nil, internalError("Failed to get investments, try again later.")
		}
		investment, err := investmentFromRow(row)
		if err != nil {
			return nil, err
		}
		investments = append(investments, investment)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.ListInvestments() | Error: %v", traceID, err)
		return nil, internalError("Failed to get investments, try again later.")
	}
	return investments, nil
}

func (s *SQLStorage) DeleteInvestment(ctx context.Context, id string) error {
	return s.delete(ctx, "investments", id)
}

// --- SNAPSHOT / REPLACE --- //

// Snapshot reads all five collections. No lock is taken; the reads may
// interleave with writes from the same session.
func (s *SQLStorage) Snapshot(ctx context.Context) (finance.Snapshot, error) {
	transactions, err := s.ListTransactions(ctx)
	if err != nil {
		return finance.Snapshot{}, err
	}
	goals, err := s.ListGoals(ctx)
	if err != nil {
		return finance.Snapshot{}, err
	}
	recurring, err := s.ListRecurringExpenses(ctx)
	if err != nil {
		return finance.Snapshot{}, err
	}
	debts, err := s.ListDebts(ctx)
	if err != nil {
		return finance.Snapshot{}, err
	}
	investments, err := s.ListInvestments(ctx)
	if err != nil {
		return finance.Snapshot{}, err
	}

	return finance.Snapshot{
		Transactions:      transactions,
		Goals:             goals,
		RecurringExpenses: recurring,
		Debts:             debts,
		Investments:       investments,
	}, nil
}

func importWriteError(traceID string, stage string, err error) error {
	logging.Logger.Errorf("[TraceID=%s] | failed to %s in Storage.ReplaceAll() | Error: %v", traceID, stage, err)
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrImportWrite,
		Message: "Failed to replace stored data, previous data was kept.",
	}
}

// ReplaceAll clears every collection and repopulates it from the
// snapshot inside a single SQL transaction. A failure anywhere rolls
// the whole thing back, so a concurrent reader never observes some
// collections cleared and others not.
func (s *SQLStorage) ReplaceAll(ctx context.Context, snapshot finance.Snapshot) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return importWriteError(traceID, "start SQL transaction", err)
	}

	for _, table := range []string{"transactions", "goals", "recurring_expenses", "debts", "investments"} {
		if _, err := txn.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			txn.Rollback()
			return importWriteError(traceID, "clear table "+table, err)
		}
	}

	for i, t := range snapshot.Transactions {
		if err := insertTransaction(ctx, txn, t, int64(i+1)); err != nil {
			txn.Rollback()
			return importWriteError(traceID, "repopulate transactions", err)
		}
	}
	for i, g := range snapshot.Goals {
		if err := insertGoal(ctx, txn, g, int64(i+1)); err != nil {
			txn.Rollback()
			return importWriteError(traceID, "repopulate goals", err)
		}
	}
	for i, r := range snapshot.RecurringExpenses {
		if err := insertRecurringExpense(ctx, txn, r, int64(i+1)); err != nil {
			txn.Rollback()
			return importWriteError(traceID, "repopulate recurring expenses", err)
		}
	}
	for i, d := range snapshot.Debts {
		if err := insertDebt(ctx, txn, d, int64(i+1)); err != nil {
			txn.Rollback()
			return importWriteError(traceID, "repopulate debts", err)
		}
	}
	for i, inv := range snapshot.Investments {
		if err := insertInvestment(ctx, txn, inv, int64(i+1)); err != nil {
			txn.Rollback()
			return importWriteError(traceID, "repopulate investments", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return importWriteError(traceID, "commit SQL transaction", err)
	}
	return nil
}

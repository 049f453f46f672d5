package finance

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Backup documents and API responses encode amounts as JSON
	// numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"

	InvestmentCrypto     = "crypto"
	InvestmentStock      = "stock"
	InvestmentRealEstate = "real_estate"
	InvestmentBond       = "bond"
	InvestmentOther      = "other"

	DebtPaymentCategory = "Spłata Długu"
)

// Categories is the fixed category list; document parsing constrains
// the model output to these values.
var Categories = []string{
	"Jedzenie",
	"Mieszkanie",
	"Transport",
	"Rozrywka",
	"Zdrowie",
	"Edukacja",
	"Zakupy",
	"Inne",
	"Wypłata",
	"Prezent",
	"Rachunki",
	"Abonamenty",
	"Spłata Długu",
	"Inwestycje",
}

// Transaction amount is always positive; the sign is implied by Type.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

// SavingsGoal CurrentAmount may exceed TargetAmount, there is no clamp.
type SavingsGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Color         string          `json:"color"`
}

type RecurringExpense struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"` // monthly or yearly
	DueDay    int             `json:"dueDay"`    // day of the month, 1-31
	Category  string          `json:"category"`
}

type Debt struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	MinimumPayment  *decimal.Decimal `json:"minimumPayment,omitempty"`
}

// Investment profit is derived from CurrentValue - AmountInvested and
// never stored.
type Investment struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	AmountInvested decimal.Decimal `json:"amountInvested"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	Date           string          `json:"date"`
}

func (i Investment) Profit() decimal.Decimal {
	return i.CurrentValue.Sub(i.AmountInvested)
}

// Snapshot carries the contents of all five collections; it is the
// payload of a backup export and the unit of an atomic replace.
type Snapshot struct {
	Transactions      []Transaction      `json:"transactions"`
	Goals             []SavingsGoal      `json:"goals"`
	RecurringExpenses []RecurringExpense `json:"recurringExpenses"`
	Debts             []Debt             `json:"debts"`
	Investments       []Investment       `json:"investments"`
}

// Normalize replaces nil collections with empty ones, so a marshalled
// snapshot always carries five JSON arrays.
func (s *Snapshot) Normalize() {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Goals == nil {
		s.Goals = []SavingsGoal{}
	}
	if s.RecurringExpenses == nil {
		s.RecurringExpenses = []RecurringExpense{}
	}
	if s.Debts == nil {
		s.Debts = []Debt{}
	}
	if s.Investments == nil {
		s.Investments = []Investment{}
	}
}

type BudgetSummary struct {
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	TotalExpense          decimal.Decimal `json:"totalExpense"`
	Balance               decimal.Decimal `json:"balance"`
	TotalRecurringMonthly decimal.Decimal `json:"totalRecurringMonthly"`
	TotalDebt             decimal.Decimal `json:"totalDebt"`
	InvestmentValue       decimal.Decimal `json:"investmentValue"`
	InvestmentProfit      decimal.Decimal `json:"investmentProfit"`
}

// Requests carry user input before an ID is assigned.

type TransactionRequest struct {
	Amount      decimal.Decimal
	Type        string
	Category    string
	Description string
	Date        string
}

type GoalRequest struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Color         string
}

type RecurringExpenseRequest struct {
	Name      string
	Amount    decimal.Decimal
	Frequency string
	DueDay    int
	Category  string
}

type DebtRequest struct {
	Name            string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	InterestRate    *decimal.Decimal
	MinimumPayment  *decimal.Decimal
}

type InvestmentRequest struct {
	Name           string
	Type           string
	AmountInvested decimal.Decimal
	CurrentValue   decimal.Decimal
	Date           string
}

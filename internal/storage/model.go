package storage

import "database/sql"

type dbTransaction struct {
	ID          string
	Amount      string
	Type        string
	Category    string
	Description string
	Date        string
}

type dbGoal struct {
	ID            string
	Name          string
	TargetAmount  string
	CurrentAmount string
	Color         string
}

type dbRecurringExpense struct {
	ID        string
	Name      string
	Amount    string
	Frequency string
	DueDay    int
	Category  string
}

type dbDebt struct {
	ID              string
	Name            string
	TotalAmount     string
	RemainingAmount string
	InterestRate    sql.NullString
	MinimumPayment  sql.NullString
}

type dbInvestment struct {
	ID             string
	Name           string
	Type           string
	AmountInvested string
	CurrentValue   string
	Date           string
}

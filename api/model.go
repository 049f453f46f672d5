package api

import (
	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/internal/ai"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/shopspring/decimal"
)

// REQUESTS START:
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type CreateGoalRequest struct {
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Color         string          `json:"color"`
}

type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CreateRecurringExpenseRequest struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	DueDay    int             `json:"dueDay"`
	Category  string          `json:"category"`
}

type CreateDebtRequest struct {
	Name            string           `json:"name"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	InterestRate    *decimal.Decimal `json:"interestRate"`
	MinimumPayment  *decimal.Decimal `json:"minimumPayment"`
}

type PayDebtRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CreateInvestmentRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	AmountInvested decimal.Decimal `json:"amountInvested"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	Date           string          `json:"date"`
}

type UpdateInvestmentValueRequest struct {
	CurrentValue decimal.Decimal `json:"currentValue"`
}

type AdviceRequest struct {
	Transactions []finance.Transaction `json:"transactions"`
	Goals        []finance.SavingsGoal `json:"goals"`
	UserQuery    *string               `json:"userQuery"`
}

type ParseDocumentRequest struct {
	FileBase64 *string `json:"fileBase64"`
	MimeType   *string `json:"mimeType"`
}

//REQUESTS END:

//RESPONSES:

type ListTransactionsResponse struct {
	Transactions []finance.Transaction `json:"transactions"`
}

type ListGoalsResponse struct {
	Goals []finance.SavingsGoal `json:"goals"`
}

type ListRecurringExpensesResponse struct {
	RecurringExpenses []finance.RecurringExpense `json:"recurringExpenses"`
}

type ListDebtsResponse struct {
	Debts []finance.Debt `json:"debts"`
}

type ListInvestmentsResponse struct {
	Investments []finance.Investment `json:"investments"`
}

type AdviceResponse struct {
	Advice string `json:"advice"`
}

type ParseDocumentResponse struct {
	Transactions []ai.TransactionDraft `json:"transactions"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

func httpStatusFromError(err error) int {
	switch appErrors.CodeOf(err) {
	case appErrors.ErrNotFound:
		return 404 // not found
	case appErrors.ErrInvalidInput, appErrors.ErrInvalidBackup:
		return 400 // bad request
	case appErrors.ErrConflict:
		return 409 // conflict
	case appErrors.ErrRateLimited:
		return 429 // too many requests
	case appErrors.ErrUpstream:
		return 502 // bad gateway
	case appErrors.ErrStorageUnavailable:
		return 503 // service unavailable
	default:
		return 500 //internal error
	}
}

package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/0xcafe-io/iz"
	"github.com/D1992S/budzet/internal/ai"
	"github.com/D1992S/budzet/internal/backup"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/logging"
)

type Api struct {
	Service *finance.Tracker
	Backup  *backup.Manager
	AI      ai.Provider
}

func NewApi(service *finance.Tracker, backupManager *backup.Manager, provider ai.Provider) *Api {
	return &Api{
		Service: service,
		Backup:  backupManager,
		AI:      provider,
	}
}

func errorResponder(err error) iz.Responder {
	return iz.Respond().Status(httpStatusFromError(err)).JSON(ErrorBody{Error: err.Error()})
}

// TRANSACTION HANDLERS.

func (api *Api) SaveTransactionHandler(r *iz.Request) iz.Responder {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	transaction, err := api.Service.AddTransaction(r.Context(), finance.TransactionRequest{
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(201).JSON(transaction)
}

func (api *Api) ListTransactionsHandler(r *iz.Request) iz.Responder {
	transactions, err := api.Service.ListTransactions(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	if transactions == nil {
		transactions = []finance.Transaction{}
	}
	return iz.Respond().Status(200).JSON(ListTransactionsResponse{Transactions: transactions})
}

func (api *Api) GetTransactionByIdHandler(r *iz.Request) iz.Responder {
	transaction, err := api.Service.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(transaction)
}

func (api *Api) DeleteTransactionHandler(r *iz.Request) iz.Responder {
	if err := api.Service.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "transaction deleted"})
}

// GOAL HANDLERS.

func (api *Api) SaveGoalHandler(r *iz.Request) iz.Responder {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	goal, err := api.Service.AddGoal(r.Context(), finance.GoalRequest{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Color:         req.Color,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(201).JSON(goal)
}

func (api *Api) ListGoalsHandler(r *iz.Request) iz.Responder {
	goals, err := api.Service.ListGoals(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	if goals == nil {
		goals = []finance.SavingsGoal{}
	}
	return iz.Respond().Status(200).JSON(ListGoalsResponse{Goals: goals})
}

func (api *Api) ContributeToGoalHandler(r *iz.Request) iz.Responder {
	var req ContributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	goal, err := api.Service.ContributeToGoal(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(goal)
}

func (api *Api) DeleteGoalHandler(r *iz.Request) iz.Responder {
	if err := api.Service.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "goal deleted"})
}

// RECURRING EXPENSE HANDLERS.

func (api *Api) SaveRecurringExpenseHandler(r *iz.Request) iz.Responder {
	var req CreateRecurringExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	expense, err := api.Service.AddRecurringExpense(r.Context(), finance.RecurringExpenseRequest{
		Name:      req.Name,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		DueDay:    req.DueDay,
		Category:  req.Category,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(201).JSON(expense)
}

func (api *Api) ListRecurringExpensesHandler(r *iz.Request) iz.Responder {
	expenses, err := api.Service.ListRecurringExpenses(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	if expenses == nil {
		expenses = []finance.RecurringExpense{}
	}
	return iz.Respond().Status(200).JSON(ListRecurringExpensesResponse{RecurringExpenses: expenses})
}

func (api *Api) DeleteRecurringExpenseHandler(r *iz.Request) iz.Responder {
	if err := api.Service.DeleteRecurringExpense(r.Context(), r.PathValue("id")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "recurring expense deleted"})
}

// DEBT HANDLERS.

func (api *Api) SaveDebtHandler(r *iz.Request) iz.Responder {
	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	debt, err := api.Service.AddDebt(r.Context(), finance.DebtRequest{
		Name:            req.Name,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		InterestRate:    req.InterestRate,
		MinimumPayment:  req.MinimumPayment,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(201).JSON(debt)
}

func (api *Api) ListDebtsHandler(r *iz.Request) iz.Responder {
	debts, err := api.Service.ListDebts(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	if debts == nil {
		debts = []finance.Debt{}
	}
	return iz.Respond().Status(200).JSON(ListDebtsResponse{Debts: debts})
}

func (api *Api) PayDebtHandler(r *iz.Request) iz.Responder {
	var req PayDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	debt, err := api.Service.PayDebt(r.Context(), r.PathValue("id"), req.Amount)
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(debt)
}

func (api *Api) DeleteDebtHandler(r *iz.Request) iz.Responder {
	if err := api.Service.DeleteDebt(r.Context(), r.PathValue("id")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "debt deleted"})
}

// INVESTMENT HANDLERS.

func (api *Api) SaveInvestmentHandler(r *iz.Request) iz.Responder {
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	investment, err := api.Service.AddInvestment(r.Context(), finance.InvestmentRequest{
		Name:           req.Name,
		Type:           req.Type,
		AmountInvested: req.AmountInvested,
		CurrentValue:   req.CurrentValue,
		Date:           req.Date,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(201).JSON(investment)
}

func (api *Api) ListInvestmentsHandler(r *iz.Request) iz.Responder {
	investments, err := api.Service.ListInvestments(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	if investments == nil {
		investments = []finance.Investment{}
	}
	return iz.Respond().Status(200).JSON(ListInvestmentsResponse{Investments: investments})
}

func (api *Api) UpdateInvestmentValueHandler(r *iz.Request) iz.Responder {
	var req UpdateInvestmentValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	investment, err := api.Service.UpdateInvestmentValue(r.Context(), r.PathValue("id"), req.CurrentValue)
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(investment)
}

func (api *Api) DeleteInvestmentHandler(r *iz.Request) iz.Responder {
	if err := api.Service.DeleteInvestment(r.Context(), r.PathValue("id")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "investment deleted"})
}

// SUMMARY HANDLER.

func (api *Api) GetSummaryHandler(r *iz.Request) iz.Responder {
	summary, err := api.Service.Summary(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(summary)
}

// BACKUP HANDLERS.

func (api *Api) ExportBackupHandler(r *iz.Request) iz.Responder {
	document, err := api.Backup.Export(r.Context())
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(document)
}

func (api *Api) ImportBackupHandler(r *iz.Request) iz.Responder {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logging.Logger.Errorf("failed to read backup import body: %v", err)
		msg := fmt.Sprintf("failed to read request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}

	if err := api.Backup.Import(r.Context(), payload); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Message: "backup imported"})
}

// AI HANDLERS.

func (api *Api) AdviceHandler(r *iz.Request) iz.Responder {
	var req AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}
	if req.Transactions == nil || req.Goals == nil || req.UserQuery == nil {
		return iz.Respond().Status(400).JSON(ErrorBody{Error: "transactions, goals and userQuery are required"})
	}

	advice, err := api.AI.Advise(r.Context(), ai.AdviceRequest{
		Transactions: req.Transactions,
		Goals:        req.Goals,
		UserQuery:    *req.UserQuery,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(AdviceResponse{Advice: advice})
}

func (api *Api) ParseDocumentHandler(r *iz.Request) iz.Responder {
	var req ParseDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).JSON(ErrorBody{Error: msg})
	}
	if req.FileBase64 == nil || req.MimeType == nil {
		return iz.Respond().Status(400).JSON(ErrorBody{Error: "fileBase64 and mimeType are required"})
	}

	drafts, err := api.AI.ParseDocument(r.Context(), ai.DocumentRequest{
		FileBase64: *req.FileBase64,
		MimeType:   *req.MimeType,
	})
	if err != nil {
		return errorResponder(err)
	}
	if drafts == nil {
		drafts = []ai.TransactionDraft{}
	}
	return iz.Respond().Status(200).JSON(ParseDocumentResponse{Transactions: drafts})
}

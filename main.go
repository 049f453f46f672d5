package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/0xcafe-io/iz"
	"github.com/D1992S/budzet/api"
	"github.com/D1992S/budzet/internal/ai"
	"github.com/D1992S/budzet/internal/backup"
	"github.com/D1992S/budzet/internal/config"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/internal/storage"
	"github.com/D1992S/budzet/logging"
	"github.com/rs/cors"
)

var tracker finance.Tracker // Global

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type"},
	AllowCredentials: true,
})

func newStorage(cfg *config.Config) (finance.Storage, error) {
	if cfg.DBDriver == "memory" {
		return storage.NewMemoryStorage(), nil
	}

	db, err := storage.Init(cfg)
	if err != nil {
		return nil, err
	}
	return storage.NewSQLStorage(db, cfg.DBDriver)
}

func newProvider(ctx context.Context, cfg *config.Config) (ai.Provider, error) {
	if cfg.AIProvider == "gemini" {
		return ai.NewGeminiProvider(ctx, cfg)
	}
	return ai.NewOpenAIProvider(cfg), nil
}

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger: %w", err)
		return
	}

	logging.Logger.Info("application starting...")

	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Errorf("failed to load configuration: %v", err)
		return
	}

	storageInstance, err := newStorage(cfg)
	if err != nil {
		logging.Logger.Errorf("failed to initialize storage: %v", err)
		return
	}

	tracker = finance.NewTracker(storageInstance)
	logging.Logger.Infof("using %s storage, prompt version %s", tracker.StorageType, cfg.PromptVersion)

	if err := tracker.SeedIfEmpty(context.Background()); err != nil {
		logging.Logger.Errorf("failed to seed initial data: %v", err)
		return
	}

	provider, err := newProvider(context.Background(), cfg)
	if err != nil {
		logging.Logger.Errorf("failed to initialize AI provider: %v", err)
		return
	}

	backupManager := backup.NewManager(storageInstance)

	server := http.NewServeMux()
	handlers := api.NewApi(&tracker, backupManager, provider)

	// TRANSACTION ENDPOINTS.
	server.HandleFunc("POST /api/transaction", iz.Bind(handlers.SaveTransactionHandler))          // Create Transaction
	server.HandleFunc("GET /api/transaction", iz.Bind(handlers.ListTransactionsHandler))          // Get Transactions, newest first
	server.HandleFunc("GET /api/transaction/{id}", iz.Bind(handlers.GetTransactionByIdHandler))   // Get Transaction by ID
	server.HandleFunc("DELETE /api/transaction/{id}", iz.Bind(handlers.DeleteTransactionHandler)) // Delete Transaction

	// GOAL ENDPOINTS.
	server.HandleFunc("POST /api/goal", iz.Bind(handlers.SaveGoalHandler))                         // Create Goal
	server.HandleFunc("GET /api/goal", iz.Bind(handlers.ListGoalsHandler))                         // Get Goals
	server.HandleFunc("POST /api/goal/{id}/contribute", iz.Bind(handlers.ContributeToGoalHandler)) // Add money to a Goal
	server.HandleFunc("DELETE /api/goal/{id}", iz.Bind(handlers.DeleteGoalHandler))                // Delete Goal

	// RECURRING EXPENSE ENDPOINTS.
	server.HandleFunc("POST /api/recurring", iz.Bind(handlers.SaveRecurringExpenseHandler))          // Create Recurring Expense
	server.HandleFunc("GET /api/recurring", iz.Bind(handlers.ListRecurringExpensesHandler))          // Get Recurring Expenses
	server.HandleFunc("DELETE /api/recurring/{id}", iz.Bind(handlers.DeleteRecurringExpenseHandler)) // Delete Recurring Expense

	// DEBT ENDPOINTS.
	server.HandleFunc("POST /api/debt", iz.Bind(handlers.SaveDebtHandler))          // Create Debt
	server.HandleFunc("GET /api/debt", iz.Bind(handlers.ListDebtsHandler))          // Get Debts
	server.HandleFunc("POST /api/debt/{id}/pay", iz.Bind(handlers.PayDebtHandler))  // Pay off part of a Debt
	server.HandleFunc("DELETE /api/debt/{id}", iz.Bind(handlers.DeleteDebtHandler)) // Delete Debt

	// INVESTMENT ENDPOINTS.
	server.HandleFunc("POST /api/investment", iz.Bind(handlers.SaveInvestmentHandler))                  // Create Investment
	server.HandleFunc("GET /api/investment", iz.Bind(handlers.ListInvestmentsHandler))                  // Get Investments
	server.HandleFunc("PUT /api/investment/{id}/value", iz.Bind(handlers.UpdateInvestmentValueHandler)) // Update current value
	server.HandleFunc("DELETE /api/investment/{id}", iz.Bind(handlers.DeleteInvestmentHandler))         // Delete Investment

	// SUMMARY ENDPOINT.
	server.HandleFunc("GET /api/summary", iz.Bind(handlers.GetSummaryHandler)) // Get aggregates over all collections

	// BACKUP ENDPOINTS.
	server.HandleFunc("GET /api/backup/export", iz.Bind(handlers.ExportBackupHandler))  // Export all data as one document
	server.HandleFunc("POST /api/backup/import", iz.Bind(handlers.ImportBackupHandler)) // Replace all data from a document

	// AI ENDPOINTS.
	server.HandleFunc("POST /api/ai/advice", iz.Bind(handlers.AdviceHandler))                // Financial advice from the model
	server.HandleFunc("POST /api/ai/parse-document", iz.Bind(handlers.ParseDocumentHandler)) // Extract transactions from a document

	limiter := api.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	var handler http.Handler = server
	handler = api.PayloadLimitMiddleware(cfg.PayloadMaxBytes, handler)
	handler = limiter.Middleware(handler)
	handler = api.TraceMiddleware(handler)
	handler = corsConf.Handler(handler)

	fmt.Println("Starting server on port: ", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, handler) // Start the server
	if err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}

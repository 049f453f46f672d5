// Package ai proxies financial-advice and document-extraction requests
// to a configured model provider. The server keeps the API key; clients
// never talk to the provider directly.
package ai

import (
	"context"
	"encoding/json"

	"github.com/D1992S/budzet/internal/finance"
	"github.com/shopspring/decimal"
)

// AdviceRequest carries the client's financial context along with the
// free-form question.
type AdviceRequest struct {
	Transactions []finance.Transaction `json:"transactions"`
	Goals        []finance.SavingsGoal `json:"goals"`
	UserQuery    string                `json:"userQuery"`
}

// DocumentRequest is a base64-encoded financial document (receipt,
// bank statement) to extract transactions from.
type DocumentRequest struct {
	FileBase64 string `json:"fileBase64"`
	MimeType   string `json:"mimeType"`
}

// TransactionDraft is one extracted transaction proposal. Drafts are
// returned to the client for review, nothing is written to the store.
type TransactionDraft struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type Provider interface {
	Name() string
	Advise(ctx context.Context, req AdviceRequest) (string, error)
	ParseDocument(ctx context.Context, req DocumentRequest) ([]TransactionDraft, error)
}

// advicePayload is the structured user message sent to the model: a
// computed summary, the goals, and the 20 most recent transactions.
type advicePayload struct {
	Summary struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Balance      decimal.Decimal `json:"balance"`
	} `json:"summary"`
	Goals              []finance.SavingsGoal `json:"goals"`
	RecentTransactions []finance.Transaction `json:"recentTransactions"`
	UserQuery          string                `json:"userQuery"`
}

func buildAdvicePayload(req AdviceRequest) ([]byte, error) {
	var payload advicePayload
	for _, t := range req.Transactions {
		switch t.Type {
		case finance.TypeIncome:
			payload.Summary.TotalIncome = payload.Summary.TotalIncome.Add(t.Amount)
		case finance.TypeExpense:
			payload.Summary.TotalExpense = payload.Summary.TotalExpense.Add(t.Amount)
		}
	}
	payload.Summary.Balance = payload.Summary.TotalIncome.Sub(payload.Summary.TotalExpense)

	payload.Goals = req.Goals
	if payload.Goals == nil {
		payload.Goals = []finance.SavingsGoal{}
	}

	payload.RecentTransactions = req.Transactions
	if len(payload.RecentTransactions) > 20 {
		payload.RecentTransactions = payload.RecentTransactions[:20]
	}
	if payload.RecentTransactions == nil {
		payload.RecentTransactions = []finance.Transaction{}
	}
	payload.UserQuery = req.UserQuery

	return json.MarshalIndent(payload, "", "  ")
}

// extractedTransactions is the JSON shape the document parser prompts
// the model to produce.
type extractedTransactions struct {
	Transactions []TransactionDraft `json:"transactions"`
}

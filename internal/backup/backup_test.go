package backup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"version": 1,
	"exportedAt": "2026-03-01T10:00:00Z",
	"data": {
		"transactions": [
			{"id": "t1", "amount": 5000, "type": "income", "category": "Wypłata", "description": "Wynagrodzenie", "date": "2026-03-01"}
		],
		"goals": [
			{"id": "g1", "name": "Wakacje", "targetAmount": 5000, "currentAmount": 1200, "color": "#10b981"}
		],
		"recurringExpenses": [],
		"debts": [
			{"id": "d1", "name": "Karta", "totalAmount": 4000, "remainingAmount": 2500}
		],
		"investments": []
	}
}`

func TestImportReplacesEverything(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()

	// Pre-existing data must be gone after the import.
	err := store.SaveTransaction(ctx, finance.Transaction{
		ID: "old", Amount: decimal.NewFromInt(1), Type: finance.TypeExpense, Category: "Inne", Date: "2025-01-01",
	})
	require.NoError(t, err)

	manager := NewManager(store)
	require.NoError(t, manager.Import(ctx, []byte(sampleDocument)))

	transactions, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, "t1", transactions[0].ID)
	require.Equal(t, "Wypłata", transactions[0].Category)
	require.Equal(t, "Wynagrodzenie", transactions[0].Description)
	require.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(5000)))

	goals, err := store.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	debts, err := store.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	require.Nil(t, debts[0].InterestRate)
}

func TestImportIsIdempotent(t *testing.T) {
	store := storage.NewMemoryStorage()
	manager := NewManager(store)
	ctx := context.Background()

	require.NoError(t, manager.Import(ctx, []byte(sampleDocument)))
	first, err := store.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.Import(ctx, []byte(sampleDocument)))
	second, err := store.Snapshot(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestExportImportRoundTrip(t *testing.T) {
	store := storage.NewMemoryStorage()
	manager := NewManager(store)
	ctx := context.Background()

	require.NoError(t, manager.Import(ctx, []byte(sampleDocument)))

	document, err := manager.Export(ctx)
	require.NoError(t, err)
	require.Equal(t, DocumentVersion, document.Version)
	require.NotEmpty(t, document.ExportedAt)

	payload, err := json.Marshal(document)
	require.NoError(t, err)

	restored := storage.NewMemoryStorage()
	require.NoError(t, NewManager(restored).Import(ctx, payload))

	original, err := store.Snapshot(ctx)
	require.NoError(t, err)
	copied, err := restored.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, original, copied)
}

func TestExportEmptyStore(t *testing.T) {
	manager := NewManager(storage.NewMemoryStorage())

	document, err := manager.Export(context.Background())
	require.NoError(t, err)

	payload, err := json.Marshal(document)
	require.NoError(t, err)

	// Empty collections serialize as arrays, not null.
	require.Contains(t, string(payload), `"transactions":[]`)
	require.Contains(t, string(payload), `"investments":[]`)
}

func TestImportRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "Not JSON", payload: `this is not json`},
		{name: "Missing Version", payload: `{"exportedAt": "2026-03-01T10:00:00Z", "data": {"transactions": [], "goals": [], "recurringExpenses": [], "debts": [], "investments": []}}`},
		{name: "Wrong Version", payload: `{"version": 2, "exportedAt": "2026-03-01T10:00:00Z", "data": {"transactions": [], "goals": [], "recurringExpenses": [], "debts": [], "investments": []}}`},
		{name: "Missing ExportedAt", payload: `{"version": 1, "data": {"transactions": [], "goals": [], "recurringExpenses": [], "debts": [], "investments": []}}`},
		{name: "Missing Data", payload: `{"version": 1, "exportedAt": "2026-03-01T10:00:00Z"}`},
		{name: "Data Not An Object", payload: `{"version": 1, "exportedAt": "2026-03-01T10:00:00Z", "data": []}`},
		{name: "Missing Debts Collection", payload: `{"version": 1, "exportedAt": "2026-03-01T10:00:00Z", "data": {"transactions": [], "goals": [], "recurringExpenses": [], "investments": []}}`},
		{name: "Collection Not An Array", payload: `{"version": 1, "exportedAt": "2026-03-01T10:00:00Z", "data": {"transactions": {}, "goals": [], "recurringExpenses": [], "debts": [], "investments": []}}`},
		{name: "Record With Wrong Field Type", payload: `{"version": 1, "exportedAt": "2026-03-01T10:00:00Z", "data": {"transactions": [{"id": "t1", "amount": "not-a-number-at-all!", "type": "income", "category": "Inne", "description": "", "date": "2026-03-01"}], "goals": [], "recurringExpenses": [], "debts": [], "investments": []}}`},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			err := store.SaveTransaction(ctx, finance.Transaction{
				ID: "keep", Amount: decimal.NewFromInt(1), Type: finance.TypeExpense, Category: "Inne", Date: "2025-01-01",
			})
			require.NoError(t, err)

			manager := NewManager(store)
			err = manager.Import(ctx, []byte(tt.payload))
			require.Error(t, err)
			require.Equal(t, appErrors.ErrInvalidBackup, appErrors.CodeOf(err))

			// The store is untouched after a rejected document.
			transactions, err := store.ListTransactions(ctx)
			require.NoError(t, err)
			require.Len(t, transactions, 1)
			require.Equal(t, "keep", transactions[0].ID)
		})
	}
}

// failingStorage rejects every replace so the all-or-nothing contract
// can be observed from the manager's side.
type failingStorage struct {
	*storage.MemoryStorage
}

func (f *failingStorage) ReplaceAll(ctx context.Context, snapshot finance.Snapshot) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrImportWrite,
		Message: "Failed to replace stored data, previous data was kept.",
	}
}

func TestImportWriteFailureKeepsOldData(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemoryStorage()
	err := inner.SaveTransaction(ctx, finance.Transaction{
		ID: "keep", Amount: decimal.NewFromInt(1), Type: finance.TypeExpense, Category: "Inne", Date: "2025-01-01",
	})
	require.NoError(t, err)

	manager := NewManager(&failingStorage{MemoryStorage: inner})
	err = manager.Import(ctx, []byte(sampleDocument))
	require.Error(t, err)

	var appErr appErrors.ErrorResponse
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, appErrors.ErrImportWrite, appErr.Code)

	transactions, err := inner.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, "keep", transactions[0].ID)
}

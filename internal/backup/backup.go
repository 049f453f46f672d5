// Package backup turns the whole data set into a portable JSON
// document and restores it again with all-or-nothing semantics.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/internal/contextutil"
	"github.com/D1992S/budzet/internal/finance"
	"github.com/D1992S/budzet/logging"
)

// DocumentVersion is the only backup format in circulation. Bump it
// when the document layout itself changes, not when the record schema
// gains a collection.
const DocumentVersion = 1

// Document is the exported backup file.
type Document struct {
	Version    int              `json:"version"`
	ExportedAt string           `json:"exportedAt"`
	Data       finance.Snapshot `json:"data"`
}

type Manager struct {
	storage finance.Storage
}

func NewManager(storage finance.Storage) *Manager {
	return &Manager{storage: storage}
}

// Export snapshots every collection into a single document. Exporting
// an empty store yields a valid document with five empty arrays.
func (m *Manager) Export(ctx context.Context) (Document, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	snapshot, err := m.storage.Snapshot(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("failed to snapshot data for export: %w", err)
	}
	snapshot.Normalize()

	logging.Logger.Infof("[TraceID=%s] | exported backup with %d transaction(s)", traceID, len(snapshot.Transactions))
	return Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Data:       snapshot,
	}, nil
}

func invalidBackup(reason string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInvalidBackup,
		Message: reason,
	}
}

// rawDocument keeps the collections undecoded so each field can be
// checked for presence before its records are parsed.
type rawDocument struct {
	Version    *int             `json:"version"`
	ExportedAt *string          `json:"exportedAt"`
	Data       *json.RawMessage `json:"data"`
}

type rawData struct {
	Transactions      *json.RawMessage `json:"transactions"`
	Goals             *json.RawMessage `json:"goals"`
	RecurringExpenses *json.RawMessage `json:"recurringExpenses"`
	Debts             *json.RawMessage `json:"debts"`
	Investments       *json.RawMessage `json:"investments"`
}

func decodeCollection(raw *json.RawMessage, name string, target interface{}) error {
	if raw == nil {
		return invalidBackup(fmt.Sprintf("The backup document is missing the '%s' collection.", name))
	}
	if err := json.Unmarshal(*raw, target); err != nil {
		return invalidBackup(fmt.Sprintf("The '%s' collection of the backup document is malformed.", name))
	}
	return nil
}

// Parse validates a backup document and decodes it into a snapshot.
// It touches no stored data, so a rejected document leaves the store
// exactly as it was.
func Parse(payload []byte) (finance.Snapshot, error) {
	var doc rawDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return finance.Snapshot{}, invalidBackup("The backup document is not valid JSON.")
	}

	if doc.Version == nil {
		return finance.Snapshot{}, invalidBackup("The backup document is missing the 'version' field.")
	}
	if *doc.Version != DocumentVersion {
		return finance.Snapshot{}, invalidBackup(fmt.Sprintf("Unsupported backup version %d, expected %d.", *doc.Version, DocumentVersion))
	}
	if doc.ExportedAt == nil {
		return finance.Snapshot{}, invalidBackup("The backup document is missing the 'exportedAt' field.")
	}
	if doc.Data == nil {
		return finance.Snapshot{}, invalidBackup("The backup document is missing the 'data' field.")
	}

	var data rawData
	if err := json.Unmarshal(*doc.Data, &data); err != nil {
		return finance.Snapshot{}, invalidBackup("The 'data' field of the backup document is not an object.")
	}

	var snapshot finance.Snapshot
	if err := decodeCollection(data.Transactions, "transactions", &snapshot.Transactions); err != nil {
		return finance.Snapshot{}, err
	}
	if err := decodeCollection(data.Goals, "goals", &snapshot.Goals); err != nil {
		return finance.Snapshot{}, err
	}
	if err := decodeCollection(data.RecurringExpenses, "recurringExpenses", &snapshot.RecurringExpenses); err != nil {
		return finance.Snapshot{}, err
	}
	if err := decodeCollection(data.Debts, "debts", &snapshot.Debts); err != nil {
		return finance.Snapshot{}, err
	}
	if err := decodeCollection(data.Investments, "investments", &snapshot.Investments); err != nil {
		return finance.Snapshot{}, err
	}

	snapshot.Normalize()
	return snapshot, nil
}

// Import replaces the entire store with the document's contents. The
// document is validated in full first; once validation passes, the
// replacement happens atomically in the storage layer. Importing the
// same document twice leaves the store identical after each pass.
func (m *Manager) Import(ctx context.Context, payload []byte) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	snapshot, err := Parse(payload)
	if err != nil {
		logging.Logger.Warnf("[TraceID=%s] | rejected backup import | Error: %v", traceID, err)
		return err
	}

	if err := m.storage.ReplaceAll(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	logging.Logger.Infof("[TraceID=%s] | imported backup with %d transaction(s)", traceID, len(snapshot.Transactions))
	return nil
}

package staging

import (
	"time"

	"github.com/shopspring/decimal"

	"SafImport/internal/parser"
)

// Lifecycle states of a staged row.
const (
	StatusPending   = "PENDING"
	StatusDuplicate = "DUPLICATE"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

// DraftRow is a parsed draft joined with its resolved agent identity,
// ready to stage.
type DraftRow struct {
	parser.TransactionDraft
	AgentIdentityID int64
	AgentLabel      string
}

// StagedRow is one transaction parked in the staging table, waiting for
// a validator's decision.
type StagedRow struct {
	ID              int64           `json:"id"`
	SessionID       string          `json:"session_id"`
	SequenceNumber  int64           `json:"sequence_number"`
	ReferenceCode   string          `json:"reference_code"`
	Partner         string          `json:"partner"`
	Amount          decimal.Decimal `json:"amount"`
	Commission      decimal.Decimal `json:"commission"`
	Tax             decimal.Decimal `json:"tax"`
	OperationType   string          `json:"operation_type"`
	OperationDate   time.Time       `json:"operation_date"`
	BranchCode      string          `json:"branch_code"`
	AgentIdentityID int64           `json:"agent_identity_id"`
	AgentLabel      string          `json:"agent_label"`
	SenderName      string          `json:"sender_name,omitempty"`
	BeneficiaryName string          `json:"beneficiary_name,omitempty"`
	Status          string          `json:"status"`
	FileName        string          `json:"file_name"`
	ImportedBy      string          `json:"imported_by"`
	ImportedAt      time.Time       `json:"imported_at"`
}

// SessionSummary aggregates one import session for the pending list.
type SessionSummary struct {
	SessionID      string          `json:"session_id"`
	FileName       string          `json:"file_name"`
	Partner        string          `json:"partner"`
	ImportedBy     string          `json:"imported_by"`
	ImportedAt     time.Time       `json:"imported_at"`
	PendingCount   int             `json:"pending_count"`
	DuplicateCount int             `json:"duplicate_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         string          `json:"status"`
}

// DuplicateRow pairs a staged row with the authoritative row sharing
// its key, so a reviewer can compare the two before deciding.
type DuplicateRow struct {
	StagedRow
	ExistingSerial     int64           `json:"existing_serial"`
	ExistingAmount     decimal.Decimal `json:"existing_amount"`
	ExistingDate       time.Time       `json:"existing_date"`
	ExistingBranchCode string          `json:"existing_branch_code"`
	ExistingImportedAt time.Time       `json:"existing_imported_at"`
}

// BranchBreakdown is the per-branch slice of an import result.
type BranchBreakdown struct {
	BranchCode string          `json:"branch_code"`
	Count      int             `json:"count"`
	Amount     decimal.Decimal `json:"amount"`
}

// ImportOutcome is what an upload call reports back to the operator.
type ImportOutcome struct {
	ImportSessionID    string            `json:"importSessionId"`
	AcceptedCount      int               `json:"acceptedCount"`
	DuplicateCount     int               `json:"duplicateCount"`
	ErrorCount         int               `json:"errorCount"`
	ErrorSamples       []parser.RowError `json:"errorSamples,omitempty"`
	TotalAmountInFile  decimal.Decimal   `json:"totalAmountInFile"`
	RequiresValidation bool              `json:"requiresValidation"`
	Branches           []BranchBreakdown `json:"branches"`
}

package parser

import (
	"time"

	"github.com/shopspring/decimal"
)

// Partner networks whose exports this package understands.
const (
	PartnerMoneyGram    = "MONEYGRAM"
	PartnerRia          = "RIA"
	PartnerWesternUnion = "WESTERN_UNION"
)

// Operation types carried on a draft.
const (
	OperationSend    = "ENVOI"
	OperationPayout  = "PAIEMENT"
	OperationReverse = "ANNULATION"
)

// TransactionDraft is one normalized row extracted from a partner export.
// Drafts are immutable once emitted; branch resolution and identity
// unification read them, the staging store persists them.
type TransactionDraft struct {
	SequenceNumber  int64
	ReferenceCode   string
	Partner         string
	Amount          decimal.Decimal
	Commission      decimal.Decimal
	Tax             decimal.Decimal
	OperationType   string
	OperationDate   time.Time
	AgentRaw        string
	AgentCode       string
	BranchCode      string
	SiteName        string
	SenderName      string
	BeneficiaryName string
}

// TotalAmount is the amount charged to the counter: principal plus tax.
func (d TransactionDraft) TotalAmount() decimal.Decimal {
	return d.Amount.Add(d.Tax)
}

// RowError is a malformed data row that was skipped, kept as a capped
// sample for diagnosis.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseResult is what a partner parser hands back for one document.
// Skipped counts every non-data row passed over; Errors counts the
// subset that looked like data but would not parse, with RowErrors
// keeping a capped sample of those.
type ParseResult struct {
	Type      DocumentType
	Drafts    []TransactionDraft
	RowErrors []RowError
	Errors    int
	Skipped   int
}

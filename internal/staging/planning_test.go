package staging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SafImport/internal/parser"
)

func draft(ref, partner, day string, amount int64) DraftRow {
	d, _ := time.Parse("2006-01-02", day)
	return DraftRow{TransactionDraft: parser.TransactionDraft{
		ReferenceCode: ref,
		Partner:       partner,
		OperationDate: d,
		Amount:        decimal.NewFromInt(amount),
		BranchCode:    "001",
	}}
}

func TestPlanStagingFlagsExistingKeys(t *testing.T) {
	existing := map[dupKey]struct{}{
		{ref: "R1", partner: parser.PartnerMoneyGram, day: "2025-04-29"}: {},
	}
	rows := []DraftRow{
		draft("R1", parser.PartnerMoneyGram, "2025-04-29", 100),
		draft("R2", parser.PartnerMoneyGram, "2025-04-29", 200),
	}

	accepted, duplicates := planStaging(rows, existing)
	require.Len(t, accepted, 1)
	require.Len(t, duplicates, 1)
	assert.Equal(t, "R2", accepted[0].ReferenceCode)
	assert.Equal(t, "R1", duplicates[0].ReferenceCode)
}

func TestPlanStagingKeyIsRefPartnerDate(t *testing.T) {
	existing := map[dupKey]struct{}{
		{ref: "R1", partner: parser.PartnerMoneyGram, day: "2025-04-29"}: {},
	}
	rows := []DraftRow{
		// Same ref, different partner.
		draft("R1", parser.PartnerRia, "2025-04-29", 100),
		// Same ref and partner, different day.
		draft("R1", parser.PartnerMoneyGram, "2025-04-30", 100),
	}

	accepted, duplicates := planStaging(rows, existing)
	assert.Len(t, accepted, 2)
	assert.Empty(t, duplicates)
}

func TestPlanStagingCatchesInFileDuplicates(t *testing.T) {
	rows := []DraftRow{
		draft("R1", parser.PartnerRia, "2025-04-29", 100),
		draft("R1", parser.PartnerRia, "2025-04-29", 100),
		draft("R1", parser.PartnerRia, "2025-04-29", 100),
	}

	accepted, duplicates := planStaging(rows, nil)
	assert.Len(t, accepted, 1)
	assert.Len(t, duplicates, 2)
}

// Serials are handed out in staging-insert order, so the file's own row
// order must survive planning even when dates are shuffled.
func TestPlanStagingKeepsFileOrder(t *testing.T) {
	rows := []DraftRow{
		draft("R1", parser.PartnerRia, "2025-05-02", 100),
		draft("R2", parser.PartnerRia, "2025-05-01", 200),
		draft("R3", parser.PartnerRia, "2025-05-03", 300),
	}

	accepted, duplicates := planStaging(rows, nil)
	require.Empty(t, duplicates)
	require.Len(t, accepted, 3)
	for i, want := range []string{"R1", "R2", "R3"} {
		assert.Equal(t, want, accepted[i].ReferenceCode)
	}

	serials := assignSerials(500, len(accepted))
	assert.Equal(t, []int64{501, 502, 503}, serials)
	// The first serial goes to the file's first row, not the earliest date.
	assert.Equal(t, "R1", accepted[0].ReferenceCode)
}

func TestAssignSerials(t *testing.T) {
	serials := assignSerials(1000, 3)
	assert.Equal(t, []int64{1001, 1002, 1003}, serials)

	// Two sequential sessions draw disjoint dense ranges.
	next := assignSerials(1003, 2)
	assert.Equal(t, []int64{1004, 1005}, next)
}

func TestBreakdown(t *testing.T) {
	rows := []DraftRow{
		draft("R1", parser.PartnerRia, "2025-04-29", 100),
		draft("R2", parser.PartnerRia, "2025-04-29", 200),
		draft("R3", parser.PartnerRia, "2025-04-29", 50),
	}
	rows[2].BranchCode = "002"

	out := breakdown(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "001", out[0].BranchCode)
	assert.Equal(t, 2, out[0].Count)
	assert.True(t, out[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "002", out[1].BranchCode)

	assert.True(t, totalAmount(rows).Equal(decimal.NewFromInt(350)))
}

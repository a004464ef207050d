package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiaDetail(t *testing.T) {
	doc := NewDocument([][]string{
		{"28/04/2025", "29/04/2025", "RIA1234567890", "A01", "JEAN DUPONT", "ALI SAID", "501", "", "", "49 200,00 KMF"},
		{"28/04/2025", "29/04/2025", "RIA1234567891", "A02", "MARIE CLAIRE", "FATIMA ABDOU", "502", "", "", "12 500,00 KMF"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, TypeRiaDetail, res.Type)
	require.Len(t, res.Drafts, 2)

	first := res.Drafts[0]
	assert.Equal(t, PartnerRia, first.Partner)
	assert.Equal(t, OperationPayout, first.OperationType)
	assert.Equal(t, "RIA1234567890", first.ReferenceCode)
	assert.Equal(t, int64(501), first.SequenceNumber)
	assert.Equal(t, "A01", first.AgentCode)
	assert.Equal(t, "JEAN DUPONT", first.SenderName)
	assert.Equal(t, "ALI SAID", first.BeneficiaryName)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(49200)), "amount=%s", first.Amount)
	// Payout date wins over creation date.
	assert.Equal(t, 29, first.OperationDate.Day())
}

func TestParseRiaDetailSkipsRowsWithoutPin(t *testing.T) {
	doc := NewDocument([][]string{
		{"28/04/2025", "29/04/2025", "RIA1234567890", "A01", "", "", "501", "", "", "1 000,00 KMF"},
		{"28/04/2025", "29/04/2025", "", "A01", "", "", "502", "", "", "2 000,00 KMF"},
		{"28/04/2025", "", "RIA1234567892", "A01", "", "", "503", "", "", "3 000,00 KMF"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "RIA1234567890", res.Drafts[0].ReferenceCode)
	assert.Equal(t, 2, res.Skipped)
}

func TestParseRiaDetailBadPayDate(t *testing.T) {
	doc := NewDocument([][]string{
		{"28/04/2025", "29/04/2025", "RIA1234567890", "A01", "", "", "501", "", "", "1 000,00 KMF"},
		{"28/04/2025", "notadate", "RIA1234567891", "A01", "", "", "502", "", "", "2 000,00 KMF"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	require.Len(t, res.RowErrors, 1)
	assert.Equal(t, 2, res.RowErrors[0].Row)
}

package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wuDoc(rows [][]string) *Document {
	head := [][]string{
		{"Commission par direction"},
		{""},
	}
	return NewDocument(append(head, rows...))
}

func TestParseWesternUnion(t *testing.T) {
	doc := wuDoc([][]string{
		{"Site: MORONI CENTRE (MC001)"},
		{"Transferts envoyés"},
		{"29/04/2025", "1234567890", "", "10000", "500", "", "", "", "250"},
		{"29/04/2025", "1234567891", "", "20000", "800", "", "", "", "400"},
		{"Transferts reçus"},
		{"29/04/2025", "9876543210", "", "15000", "0", "", "", "", "300"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, TypeWesternUnion, res.Type)
	require.Len(t, res.Drafts, 3)

	first := res.Drafts[0]
	assert.Equal(t, PartnerWesternUnion, first.Partner)
	assert.Equal(t, OperationSend, first.OperationType)
	assert.Equal(t, "1234567890", first.ReferenceCode)
	assert.Equal(t, "MORONI CENTRE", first.SiteName)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, first.Tax.Equal(decimal.NewFromInt(500)))
	assert.True(t, first.Commission.Equal(decimal.NewFromInt(250)))

	last := res.Drafts[2]
	assert.Equal(t, OperationPayout, last.OperationType)
	assert.Equal(t, "9876543210", last.ReferenceCode)
}

func TestParseWesternUnionMultipleSites(t *testing.T) {
	doc := wuDoc([][]string{
		{"Site: MORONI CENTRE (MC001)"},
		{"Transferts envoyés"},
		{"29/04/2025", "1234567890", "", "10000", "500", "", "", "", "250"},
		{"Site: MORONI PORT (MP002)"},
		{"Transferts reçus"},
		{"29/04/2025", "1234567892", "", "5000", "0", "", "", "", "100"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)
	assert.Equal(t, "MORONI CENTRE", res.Drafts[0].SiteName)
	assert.Equal(t, "MORONI PORT", res.Drafts[1].SiteName)
	assert.Equal(t, OperationPayout, res.Drafts[1].OperationType)
}

func TestParseWesternUnionIgnoresRowsBeforeDirection(t *testing.T) {
	doc := wuDoc([][]string{
		{"Site: MORONI CENTRE (MC001)"},
		{"29/04/2025", "1234567890", "", "10000", "500", "", "", "", "250"},
		{"Transferts envoyés"},
		{"29/04/2025", "1234567891", "", "20000", "800", "", "", "", "400"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "1234567891", res.Drafts[0].ReferenceCode)
}

func TestParseWesternUnionRejectsShortMTCN(t *testing.T) {
	doc := wuDoc([][]string{
		{"Site: MORONI CENTRE (MC001)"},
		{"Transferts envoyés"},
		{"29/04/2025", "1234", "", "10000", "500"},
		{"29/04/2025", "1234567890", "", "10000", "500"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "1234567890", res.Drafts[0].ReferenceCode)
}

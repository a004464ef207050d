package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mgDetailDoc(dataRows [][]string) *Document {
	rows := make([][]string, 0, mgDetailDataStart+len(dataRows))
	rows = append(rows, []string{"Rapport de Transaction Journalier"})
	for len(rows) < 9 {
		rows = append(rows, []string{""})
	}
	rows = append(rows, []string{"Succursale: MORONI CENTRE (005)    Guichetier: JOHN DOE"})
	for len(rows) < mgDetailDataStart-1 {
		rows = append(rows, []string{""})
	}
	rows = append(rows, dataRows...)
	return NewDocument(rows)
}

func TestParseMoneyGramDetail(t *testing.T) {
	doc := mgDetailDoc([][]string{
		{"10000001", "29/04/2025", "ALI SAID", "101", "", "1,000.00", "50", "", "25"},
		{"10000002", "29/04/2025", "FATIMA ABDOU", "102", "", "2,000.00", "0", "", "30"},
		{"10000003", "29/04/2025", "AHMED BACAR", "103", "", "3,000.00", "0", "", "35"},
		{"Total", "", "", "", "", "6,000.00"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, TypeMoneyGramDetail, res.Type)
	require.Len(t, res.Drafts, 3)

	sum := decimal.Zero
	for _, d := range res.Drafts {
		assert.Equal(t, PartnerMoneyGram, d.Partner)
		assert.Equal(t, OperationPayout, d.OperationType)
		assert.Equal(t, "005", d.BranchCode)
		assert.Equal(t, "JOHN DOE", d.AgentRaw)
		sum = sum.Add(d.Amount)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(6000)), "sum=%s", sum)

	first := res.Drafts[0]
	assert.Equal(t, "10000001", first.ReferenceCode)
	assert.Equal(t, int64(101), first.SequenceNumber)
	assert.Equal(t, "ALI SAID", first.BeneficiaryName)
	assert.True(t, first.Tax.Equal(decimal.NewFromInt(50)))
	assert.True(t, first.Commission.Equal(decimal.NewFromInt(25)))
	assert.True(t, first.TotalAmount().Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, 2025, first.OperationDate.Year())
	assert.Equal(t, 29, first.OperationDate.Day())
}

func TestParseMoneyGramDetailBannerSwitchesBranch(t *testing.T) {
	doc := mgDetailDoc([][]string{
		{"10000001", "29/04/2025", "ALI SAID", "101", "", "1000"},
		{"Succursale: ANJOUAN (002)    Guichetier: JANE ROE"},
		{"10000002", "29/04/2025", "FATIMA ABDOU", "102", "", "2000"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)
	assert.Equal(t, "005", res.Drafts[0].BranchCode)
	assert.Equal(t, "JOHN DOE", res.Drafts[0].AgentRaw)
	assert.Equal(t, "002", res.Drafts[1].BranchCode)
	assert.Equal(t, "JANE ROE", res.Drafts[1].AgentRaw)
}

func TestParseMoneyGramDetailSkipsZeroAndTotals(t *testing.T) {
	doc := mgDetailDoc([][]string{
		{"10000001", "29/04/2025", "ALI SAID", "101", "", "0"},
		{"Sous-total", "", "", "", "", "5000"},
		{"10000002", "not a date", "X", "102", "", "1000"},
		{"10000003", "29/04/2025", "AHMED BACAR", "103", "", "1000"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "10000003", res.Drafts[0].ReferenceCode)
	require.Len(t, res.RowErrors, 1)
	assert.Equal(t, 17, res.RowErrors[0].Row)
}

func TestParseMoneyGramDetailMissingAmountColumn(t *testing.T) {
	doc := mgDetailDoc([][]string{
		{"10000001", "29/04/2025", "ALI SAID"},
		{"10000002", "29/04/2025", "FATIMA ABDOU"},
	})

	_, err := Parse(doc)
	assert.ErrorIs(t, err, ErrUnsupportedContent)
}

func mgEnvoisDoc(dataRows [][]string) *Document {
	rows := [][]string{
		{""},
		{"Rapport détaillé des transactions MoneyGram"},
		{"MCTV MORONI (0011234)"},
	}
	return NewDocument(append(rows, dataRows...))
}

func TestParseMoneyGramEnvois(t *testing.T) {
	doc := mgEnvoisDoc([][]string{
		{"2025-Apr-29 17:45:59", "87654321", "", "A123", "", "150.00", "5.00"},
		{"2025-Apr-30 09:12:03", "87654322", "", "A124", "", "250.00", "7.50"},
		{"Total envoyé", "", "", "", "", "400.00"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, TypeMoneyGramEnvois, res.Type)
	require.Len(t, res.Drafts, 2)

	first := res.Drafts[0]
	assert.Equal(t, PartnerMoneyGram, first.Partner)
	assert.Equal(t, OperationSend, first.OperationType)
	assert.Equal(t, "87654321", first.ReferenceCode)
	assert.Equal(t, int64(87654321), first.SequenceNumber)
	assert.Equal(t, "A123", first.AgentCode)
	assert.Equal(t, "001", first.BranchCode)
	assert.True(t, first.Amount.Equal(decimal.NewFromFloat(150)))
	assert.True(t, first.Commission.Equal(decimal.NewFromFloat(5)))
	assert.Equal(t, 29, first.OperationDate.Day())
	assert.Equal(t, 17, first.OperationDate.Hour())
}

func TestParseMoneyGramEnvoisSkipsNonDataRows(t *testing.T) {
	doc := mgEnvoisDoc([][]string{
		{"Date", "Référence", "", "Agent", "", "Montant", "Frais"},
		{"2025-Apr-29 17:45:59", "", "", "A123", "", "150.00", "5.00"},
		{"2025-Apr-29 18:00:00", "87654323", "", "A123", "", "0", "0"},
		{"2025-Apr-29 19:30:00", "87654324", "", "A123", "", "300.00", "9.00"},
	})

	res, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "87654324", res.Drafts[0].ReferenceCode)
	assert.Equal(t, 2, res.Skipped)
}

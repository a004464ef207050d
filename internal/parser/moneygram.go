package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// rowContext is the accumulator threaded through a parser's row fold.
// Section banners set it; the data rows beneath them inherit it.
type rowContext struct {
	branchCode    string
	operatorName  string
	operationType string
}

// MoneyGram daily payout reports place a combined branch/teller banner
// above each block of rows:
//
//	Succursale: MORONI CENTRE (005)    Guichetier: JOHN DOE
var (
	mgBranchRe   = regexp.MustCompile(`Succursale:.*?\((\d+)\)`)
	mgOperatorRe = regexp.MustCompile(`Guichetier:\s+([A-Z\s]+)`)
)

// Data rows of a MoneyGram detail report start at row 15; everything
// above is the title block and column headers.
const mgDetailDataStart = 15

// Column positions in the detail layout (1-based).
const (
	mgDetailColRef         = 1
	mgDetailColDate        = 2
	mgDetailColBeneficiary = 3
	mgDetailColSequence    = 4
	mgDetailColAmount      = 6
	mgDetailColTax         = 7
	mgDetailColCommission  = 9
)

func parseMoneyGramDetail(doc *Document) (*ParseResult, error) {
	res := &ParseResult{Type: TypeMoneyGramDetail}
	ctx := rowContext{operationType: OperationPayout}
	narrow := 0

	for rowNum := 1; rowNum <= doc.NumRows(); rowNum++ {
		col1 := doc.Cell(rowNum, 1)

		if strings.Contains(col1, "Succursale:") {
			if m := mgBranchRe.FindStringSubmatch(col1); m != nil {
				ctx.branchCode = m[1]
			}
			if m := mgOperatorRe.FindStringSubmatch(col1); m != nil {
				ctx.operatorName = strings.TrimSpace(m[1])
			}
			continue
		}
		if rowNum < mgDetailDataStart {
			continue
		}

		ref := col1
		dateCell := doc.Cell(rowNum, mgDetailColDate)
		if ref == "" || dateCell == "" {
			res.Skipped++
			continue
		}
		if strings.Contains(strings.ToLower(ref), "total") {
			res.Skipped++
			continue
		}
		if len(doc.Row(rowNum)) < mgDetailColAmount {
			narrow++
			continue
		}

		opDate, err := parseOperationDate(dateCell)
		if err != nil {
			res.recordError(rowNum, err.Error())
			continue
		}
		amount := parseAmount(doc.Cell(rowNum, mgDetailColAmount))
		if amount.IsZero() {
			res.Skipped++
			continue
		}

		operator := ctx.operatorName
		if operator == "" {
			operator = "INCONNU"
		}
		res.Drafts = append(res.Drafts, TransactionDraft{
			SequenceNumber:  parseSequence(doc.Cell(rowNum, mgDetailColSequence)),
			ReferenceCode:   ref,
			Partner:         PartnerMoneyGram,
			Amount:          amount,
			Commission:      parseAmount(doc.Cell(rowNum, mgDetailColCommission)),
			Tax:             parseAmount(doc.Cell(rowNum, mgDetailColTax)),
			OperationType:   ctx.operationType,
			OperationDate:   opDate,
			AgentRaw:        truncate(operator, 50),
			BranchCode:      ctx.branchCode,
			BeneficiaryName: truncate(doc.Cell(rowNum, mgDetailColBeneficiary), 250),
		})
	}

	if len(res.Drafts) == 0 && narrow > 0 && len(res.RowErrors) == 0 {
		return nil, fmt.Errorf("moneygram detail: %w", ErrUnsupportedContent)
	}
	return res, nil
}

// MoneyGram send reports carry the agency as a banner like
// "MCTV MORONI (0011234)"; the first three digits of the parenthesized
// id are the branch code. Data rows are the ones whose first cell is a
// "2025-Apr-29 17:45:59" timestamp.
var (
	mgEnvoisAgencyRe  = regexp.MustCompile(`\((\d+)\)`)
	mgEnvoisDataRowRe = regexp.MustCompile(`^\d{4}-[A-Za-z]{3}-\d{1,2}\s+\d{2}:\d{2}:\d{2}`)
)

const (
	mgEnvoisColRef    = 2
	mgEnvoisColAgent  = 4
	mgEnvoisColAmount = 6
	mgEnvoisColFee    = 7
)

func parseMoneyGramEnvois(doc *Document) (*ParseResult, error) {
	res := &ParseResult{Type: TypeMoneyGramEnvois}
	ctx := rowContext{operationType: OperationSend}
	narrow := 0

	for rowNum := 1; rowNum <= doc.NumRows(); rowNum++ {
		col1 := doc.Cell(rowNum, 1)

		if strings.Contains(col1, "MCTV") && strings.Contains(col1, "(") {
			if m := mgEnvoisAgencyRe.FindStringSubmatch(col1); m != nil {
				code := m[1]
				if len(code) > 3 {
					code = code[:3]
				}
				ctx.branchCode = code
			}
			continue
		}
		if !mgEnvoisDataRowRe.MatchString(col1) {
			continue
		}
		if len(doc.Row(rowNum)) < mgEnvoisColAmount {
			narrow++
			continue
		}

		ref := doc.Cell(rowNum, mgEnvoisColRef)
		amount := parseAmount(doc.Cell(rowNum, mgEnvoisColAmount))
		if ref == "" || amount.IsZero() {
			res.Skipped++
			continue
		}
		opDate, err := parseOperationDate(col1)
		if err != nil {
			res.recordError(rowNum, err.Error())
			continue
		}

		agentCode := doc.Cell(rowNum, mgEnvoisColAgent)
		agent := agentCode
		if agent == "" {
			agent = "INCONNU"
		}
		res.Drafts = append(res.Drafts, TransactionDraft{
			SequenceNumber: parseSequence(ref),
			ReferenceCode:  ref,
			Partner:        PartnerMoneyGram,
			Amount:         amount,
			Commission:     parseAmount(doc.Cell(rowNum, mgEnvoisColFee)),
			OperationType:  ctx.operationType,
			OperationDate:  opDate,
			AgentRaw:       truncate(agent, 50),
			AgentCode:      agentCode,
			BranchCode:     ctx.branchCode,
		})
	}

	if len(res.Drafts) == 0 && narrow > 0 && len(res.RowErrors) == 0 {
		return nil, fmt.Errorf("moneygram envois: %w", ErrUnsupportedContent)
	}
	return res, nil
}

func (r *ParseResult) recordError(row int, reason string) {
	r.Skipped++
	r.Errors++
	if len(r.RowErrors) < 10 {
		r.RowErrors = append(r.RowErrors, RowError{Row: row, Reason: reason})
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

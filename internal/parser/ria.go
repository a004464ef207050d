package parser

import (
	"fmt"
)

// RIA detail exports have no header row at all; every row is a data
// row. Positions are fixed (1-based).
const (
	riaColCreateDate  = 1
	riaColPayDate     = 2
	riaColPin         = 3
	riaColAgent       = 4
	riaColSender      = 5
	riaColBeneficiary = 6
	riaColSequence    = 7
	riaColPaidAmount  = 10
)

func parseRiaDetail(doc *Document) (*ParseResult, error) {
	res := &ParseResult{Type: TypeRiaDetail}
	narrow := 0

	for rowNum := 1; rowNum <= doc.NumRows(); rowNum++ {
		pin := doc.Cell(rowNum, riaColPin)
		payDate := doc.Cell(rowNum, riaColPayDate)
		if pin == "" || payDate == "" {
			res.Skipped++
			continue
		}
		if len(doc.Row(rowNum)) < riaColPaidAmount {
			narrow++
			continue
		}

		opDate, err := parseOperationDate(payDate)
		if err != nil {
			res.recordError(rowNum, err.Error())
			continue
		}
		// Paid amounts come formatted like "49 200,00 KMF".
		amount := parseAmount(doc.Cell(rowNum, riaColPaidAmount))
		if amount.IsZero() {
			res.Skipped++
			continue
		}

		agentCode := doc.Cell(rowNum, riaColAgent)
		agent := agentCode
		if agent == "" {
			agent = "INCONNU"
		}
		res.Drafts = append(res.Drafts, TransactionDraft{
			SequenceNumber:  parseSequence(doc.Cell(rowNum, riaColSequence)),
			ReferenceCode:   pin,
			Partner:         PartnerRia,
			Amount:          amount,
			OperationType:   OperationPayout,
			OperationDate:   opDate,
			AgentRaw:        truncate(agent, 50),
			AgentCode:       agentCode,
			SenderName:      truncate(doc.Cell(rowNum, riaColSender), 250),
			BeneficiaryName: truncate(doc.Cell(rowNum, riaColBeneficiary), 250),
		})
	}

	if len(res.Drafts) == 0 && narrow > 0 && len(res.RowErrors) == 0 {
		return nil, fmt.Errorf("ria detail: %w", ErrUnsupportedContent)
	}
	return res, nil
}

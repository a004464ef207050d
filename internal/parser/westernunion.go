package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Western Union commission reports interleave site banners and
// direction headers with the data rows:
//
//	Site: MORONI CENTRE (MC001)
//	Transferts envoyés
//	29/04/2025  1234567890  ...  principal  charges  ...  commission
//	Transferts reçus
//	...
var wuSiteRe = regexp.MustCompile(`Site:\s*(.+?)\s*\(([A-Z0-9]+)\)`)

const (
	wuColDate       = 1
	wuColMTCN       = 2
	wuColPrincipal  = 4
	wuColCharges    = 5
	wuColCommission = 9
)

// A Western Union MTCN is a digit string of at least nine digits.
var wuMTCNRe = regexp.MustCompile(`^\d{9,}$`)

func parseWesternUnion(doc *Document) (*ParseResult, error) {
	res := &ParseResult{Type: TypeWesternUnion}
	ctx := rowContext{}
	site := ""
	narrow := 0

	for rowNum := 1; rowNum <= doc.NumRows(); rowNum++ {
		col1 := doc.Cell(rowNum, 1)

		if m := wuSiteRe.FindStringSubmatch(col1); m != nil {
			// Site names map to branches downstream; the code in
			// parentheses is WU's own id, not ours.
			site = strings.TrimSpace(m[1])
			continue
		}
		lower := strings.ToLower(col1)
		if strings.Contains(lower, "transferts envoy") {
			ctx.operationType = OperationSend
			continue
		}
		if strings.Contains(lower, "transferts re") {
			ctx.operationType = OperationPayout
			continue
		}
		if ctx.operationType == "" {
			continue
		}

		mtcn := doc.Cell(rowNum, wuColMTCN)
		if !looksLikeDate(col1) || !wuMTCNRe.MatchString(mtcn) {
			res.Skipped++
			continue
		}
		if len(doc.Row(rowNum)) < wuColCharges {
			narrow++
			continue
		}

		opDate, err := parseOperationDate(col1)
		if err != nil {
			res.recordError(rowNum, err.Error())
			continue
		}
		amount := parseAmount(doc.Cell(rowNum, wuColPrincipal))
		if amount.IsZero() {
			res.Skipped++
			continue
		}

		res.Drafts = append(res.Drafts, TransactionDraft{
			SequenceNumber: parseSequence(mtcn),
			ReferenceCode:  mtcn,
			Partner:        PartnerWesternUnion,
			Amount:         amount,
			Commission:     parseAmount(doc.Cell(rowNum, wuColCommission)),
			Tax:            parseAmount(doc.Cell(rowNum, wuColCharges)),
			OperationType:  ctx.operationType,
			OperationDate:  opDate,
			SiteName:       site,
		})
	}

	if len(res.Drafts) == 0 && narrow > 0 && len(res.RowErrors) == 0 {
		return nil, fmt.Errorf("western union: %w", ErrUnsupportedContent)
	}
	return res, nil
}

package parser

import (
	"errors"
	"strings"
)

// DocumentType identifies which vendor layout a document matched.
type DocumentType string

const (
	TypeMoneyGramDetail DocumentType = "MONEYGRAM_DETAIL"
	TypeMoneyGramEnvois DocumentType = "MONEYGRAM_ENVOIS"
	TypeRiaDetail       DocumentType = "RIA_DETAIL"
	TypeWesternUnion    DocumentType = "WESTERN_UNION"
	TypeUnsupported     DocumentType = "UNSUPPORTED"
)

var (
	// ErrUnsupportedFormat: no detector matched the document.
	ErrUnsupportedFormat = errors.New("unrecognized document format")
	// ErrSummaryOnly: a summary layout matched; it carries totals but no
	// per-row transaction data, so the upload is rejected whole.
	ErrSummaryOnly = errors.New("summary files contain no individual transactions")
	// ErrUnsupportedContent: the layout matched but a mandatory column is
	// absent entirely.
	ErrUnsupportedContent = errors.New("document is missing a mandatory column")
)

// formatDetector pairs a pure match predicate with the parser for that
// layout. Detectors run in declaration order; first match wins, so a
// banner check can never be shadowed by the structural fallback.
type formatDetector struct {
	docType DocumentType
	match   func(*Document) bool
	parse   func(*Document) (*ParseResult, error)
}

var detectors = []formatDetector{
	{
		docType: TypeMoneyGramDetail,
		match: func(d *Document) bool {
			return strings.Contains(d.Cell(1, 1), "Rapport de Transaction Journalier")
		},
		parse: parseMoneyGramDetail,
	},
	{
		docType: TypeMoneyGramEnvois,
		match: func(d *Document) bool {
			return strings.Contains(d.Cell(2, 1), "Rapport détaillé des transactions MoneyGram")
		},
		parse: parseMoneyGramEnvois,
	},
	{
		docType: TypeWesternUnion,
		match: func(d *Document) bool {
			return strings.Contains(d.Cell(1, 1), "Commission par direction")
		},
		parse: parseWesternUnion,
	},
	{
		// Structural fallback, evaluated last: RIA detail files ship with
		// no banner at all, the first cell is already a date and its PIN
		// neighbor is a long reference code.
		docType: TypeRiaDetail,
		match: func(d *Document) bool {
			return looksLikeDate(d.Cell(1, 1)) && len(d.Cell(1, 3)) >= 10
		},
		parse: parseRiaDetail,
	},
}

// Detect identifies the vendor layout of a document. Summary-only
// layouts are recognized but rejected: they have no per-row data.
func Detect(doc *Document) (DocumentType, error) {
	if strings.Contains(doc.Cell(1, 1), "Résumé des transactions") {
		return TypeUnsupported, ErrSummaryOnly
	}
	for _, det := range detectors {
		if det.match(doc) {
			return det.docType, nil
		}
	}
	return TypeUnsupported, ErrUnsupportedFormat
}

// Parse detects the layout and runs the matching partner parser.
func Parse(doc *Document) (*ParseResult, error) {
	if strings.Contains(doc.Cell(1, 1), "Résumé des transactions") {
		return nil, ErrSummaryOnly
	}
	for _, det := range detectors {
		if det.match(doc) {
			return det.parse(doc)
		}
	}
	return nil, ErrUnsupportedFormat
}

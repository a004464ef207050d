package staging

import (
	"sort"

	"github.com/shopspring/decimal"

	"SafImport/internal/parser"
)

// dupKey is the identity of a transaction for duplicate purposes. The
// reference code alone is not enough: partners recycle references, and
// a legitimate same-day reversal shares one too. Date is truncated to
// the day.
type dupKey struct {
	ref     string
	partner string
	day     string
}

func keyOf(d parser.TransactionDraft) dupKey {
	return dupKey{
		ref:     d.ReferenceCode,
		partner: d.Partner,
		day:     d.OperationDate.Format("2006-01-02"),
	}
}

// planStaging splits parsed drafts into rows to stage as pending and
// rows flagged duplicate. A draft is a duplicate when its key already
// exists in the database, or when an earlier row of the same file
// claimed it.
func planStaging(drafts []DraftRow, existing map[dupKey]struct{}) (accepted, duplicates []DraftRow) {
	seen := make(map[dupKey]struct{}, len(drafts))
	for _, d := range drafts {
		k := keyOf(d.TransactionDraft)
		if _, dup := existing[k]; dup {
			duplicates = append(duplicates, d)
			continue
		}
		if _, dup := seen[k]; dup {
			duplicates = append(duplicates, d)
			continue
		}
		seen[k] = struct{}{}
		accepted = append(accepted, d)
	}
	return accepted, duplicates
}

// assignSerials hands out the authoritative serial numbers for n rows
// being approved, continuing from the current maximum. Serials are
// dense and strictly increasing; the caller holds the approval lock so
// two sessions can never draw from the same range.
func assignSerials(maxSerial int64, n int) []int64 {
	serials := make([]int64, n)
	for i := range serials {
		serials[i] = maxSerial + int64(i) + 1
	}
	return serials
}

// breakdown aggregates drafts per branch, sorted by branch code.
func breakdown(drafts []DraftRow) []BranchBreakdown {
	byBranch := make(map[string]*BranchBreakdown)
	for _, d := range drafts {
		b, ok := byBranch[d.BranchCode]
		if !ok {
			b = &BranchBreakdown{BranchCode: d.BranchCode, Amount: decimal.Zero}
			byBranch[d.BranchCode] = b
		}
		b.Count++
		b.Amount = b.Amount.Add(d.Amount)
	}
	out := make([]BranchBreakdown, 0, len(byBranch))
	for _, b := range byBranch {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchCode < out[j].BranchCode })
	return out
}

// totalAmount sums the principal of every draft in the file, duplicates
// included, so the operator can tie the result to the file's own total.
func totalAmount(drafts []DraftRow) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range drafts {
		sum = sum.Add(d.Amount)
	}
	return sum
}

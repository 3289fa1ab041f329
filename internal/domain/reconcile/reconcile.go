// Package reconcile compares billed quantities from supplier invoices with
// received quantities from the receiving ledger, per normalized part key.
// Two standing comparisons exist: FCA/Mopar billings against R-code
// shipments, and external-supplier billings against O-code manual receipts.
package reconcile

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
	"github.com/promiscunix/partsuite/internal/domain/partkey"
	"github.com/promiscunix/partsuite/internal/domain/receiving"
)

// Row is one part-level discrepancy. Diff is billed minus received.
type Row struct {
	PartKey  string
	Billed   decimal.Decimal
	Received decimal.Decimal
	Diff     decimal.Decimal
}

// Report partitions the discrepancies: parts billed in excess of receipts
// (possible outstanding shipments) and parts received in excess of billings
// (possible over-receipt or mismatch).
type Report struct {
	BilledMore   []Row
	ReceivedMore []Row
}

// Truncate caps each partition at limit rows. A non-positive limit returns
// the report unchanged.
func (r Report) Truncate(limit int) Report {
	if limit <= 0 {
		return r
	}
	if len(r.BilledMore) > limit {
		r.BilledMore = r.BilledMore[:limit]
	}
	if len(r.ReceivedMore) > limit {
		r.ReceivedMore = r.ReceivedMore[:limit]
	}
	return r
}

// diffEpsilon absorbs float residue that may ride in on imported quantities.
var diffEpsilon = decimal.New(1, -6)

// Compare builds a report from per-part quantity maps keyed by normalized
// part. Parts whose difference is within epsilon are dropped; each partition
// sorts by largest absolute difference, ties in part-key order.
func Compare(billed, received map[string]decimal.Decimal) Report {
	keys := make(map[string]struct{}, len(billed)+len(received))
	for k := range billed {
		keys[k] = struct{}{}
	}
	for k := range received {
		keys[k] = struct{}{}
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	var report Report
	for _, part := range ordered {
		bq := billed[part]
		rq := received[part]
		diff := bq.Sub(rq)
		if diff.Abs().LessThan(diffEpsilon) {
			continue
		}
		row := Row{PartKey: part, Billed: bq, Received: rq, Diff: diff}
		if diff.IsPositive() {
			report.BilledMore = append(report.BilledMore, row)
		} else {
			report.ReceivedMore = append(report.ReceivedMore, row)
		}
	}

	sort.SliceStable(report.BilledMore, func(i, j int) bool {
		return report.BilledMore[i].Diff.GreaterThan(report.BilledMore[j].Diff)
	})
	sort.SliceStable(report.ReceivedMore, func(i, j int) bool {
		return report.ReceivedMore[i].Diff.Abs().GreaterThan(report.ReceivedMore[j].Diff.Abs())
	})
	return report
}

// BilledQuantities sums line-item quantities per normalized part across the
// invoices the include predicate admits. Lines with no part or no quantity
// contribute nothing.
func BilledQuantities(invoices []invoice.Invoice, include func(inv *invoice.Invoice) bool) map[string]decimal.Decimal {
	billed := make(map[string]decimal.Decimal)
	for i := range invoices {
		if include != nil && !include(&invoices[i]) {
			continue
		}
		for _, li := range invoices[i].LineItems {
			if li.PartNumber == nil || li.Quantity == nil {
				continue
			}
			key := partkey.Normalize(*li.PartNumber)
			if key == "" {
				continue
			}
			billed[key] = billed[key].Add(*li.Quantity)
		}
	}
	return billed
}

// ReceivedQuantities sums ledger quantities per normalized part for rows
// with the given source code. A non-empty supplierFilter keeps only rows
// whose supplier name contains it, case-insensitively.
func ReceivedQuantities(rows []receiving.Row, code, supplierFilter string) map[string]decimal.Decimal {
	filter := strings.ToUpper(supplierFilter)
	received := make(map[string]decimal.Decimal)
	for _, row := range rows {
		if row.TransCode != code {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToUpper(row.SupplierName), filter) {
			continue
		}
		key := partkey.Normalize(row.PartNumber)
		if key == "" {
			continue
		}
		received[key] = received[key].Add(row.QtyReceived)
	}
	return received
}

func isMopar(inv *invoice.Invoice) bool {
	if inv.Header.SupplierType == invoice.SupplierChryslerCorp {
		return true
	}
	return inv.Header.SupplierName != nil &&
		strings.HasPrefix(*inv.Header.SupplierName, "Mopar Canada")
}

// FCAReport compares Mopar/FCA billings against R-code shipment receipts.
func FCAReport(invoices []invoice.Invoice, rows []receiving.Row) Report {
	billed := BilledQuantities(invoices, isMopar)
	received := ReceivedQuantities(rows, receiving.CodeShipment, "")
	return Compare(billed, received)
}

// ManualReport compares external-supplier billings (everything that is not
// Mopar/FCA and not the dealership itself) against O-code manual receipts.
// supplierFilter narrows both sides by supplier-name substring.
func ManualReport(invoices []invoice.Invoice, rows []receiving.Row, supplierFilter string) Report {
	filter := strings.ToUpper(supplierFilter)
	billed := BilledQuantities(invoices, func(inv *invoice.Invoice) bool {
		if isMopar(inv) || inv.Header.SupplierType == invoice.SupplierSelf {
			return false
		}
		if filter != "" {
			if inv.Header.SupplierName == nil ||
				!strings.Contains(strings.ToUpper(*inv.Header.SupplierName), filter) {
				return false
			}
		}
		return true
	})
	received := ReceivedQuantities(rows, receiving.CodeManual, supplierFilter)
	return Compare(billed, received)
}

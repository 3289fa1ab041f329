package fca

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

// SupplierName is the display name assigned to parsed FCA documents.
const SupplierName = "Mopar Canada Inc. - Parts Invoice"

// ToInvoice converts a parsed FCA document into the shared invoice record.
// Order context folds into each line description so downstream reports can
// link lines back to the originating order.
func (d *Document) ToInvoice() invoice.Invoice {
	items := make([]invoice.LineItem, 0, len(d.Lines))
	for _, ln := range d.Lines {
		desc := ln.Description
		var bits []string
		if ln.OrderNumber != "" {
			bits = append(bits, "ORD "+ln.OrderNumber)
		}
		if ln.OrderDate != "" {
			bits = append(bits, "DATE "+ln.OrderDate)
		}
		if ln.Location != "" {
			bits = append(bits, "LOC "+ln.Location)
		}
		if len(bits) > 0 {
			desc = strings.TrimSpace(desc + " (" + strings.Join(bits, " ") + ")")
		}

		part := ln.PartNumber
		qty := decimal.NewFromInt(int64(ln.QtyBilled))
		unit := ln.UnitCost
		total := ln.ExtendedCost
		items = append(items, invoice.LineItem{
			RawLine:     fmt.Sprintf("%d %s %s", ln.LineNumber, ln.PartNumber, ln.Description),
			PartNumber:  &part,
			Description: invoice.StrPtr(desc),
			Quantity:    &qty,
			UnitPrice:   &unit,
			LineTotal:   &total,
		})
	}

	supplier := SupplierName
	number := d.Header.InvoiceNumber
	date := d.Header.InvoiceDate
	subtotal := d.Header.Subtotal
	total := d.Header.TotalAmount

	taxes := map[string]decimal.Decimal{}
	if !d.Header.TaxAmount.IsZero() {
		taxes["GST"] = d.Header.TaxAmount
	}

	return invoice.Invoice{
		Header: invoice.HeaderFields{
			InvoiceNumber: &number,
			InvoiceDate:   &date,
			SupplierName:  &supplier,
			SupplierType:  invoice.SupplierChryslerCorp,
			DocumentType:  d.Header.DocumentType,
			IsD2D:         d.Header.IsD2D,
			D2DType:       d.Header.D2DType,
		},
		Subtotal:  &subtotal,
		Taxes:     taxes,
		Total:     &total,
		Pages:     d.Pages,
		LineItems: items,
	}
}

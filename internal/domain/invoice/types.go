// Package invoice defines the record types shared across the extraction
// pipeline. Every field that extraction may fail to recover is a pointer;
// nil means "not found in the text", never an error.
package invoice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PageText is the raw text of one source page plus its original ordinal
// index within the document. Produced once per document load, never mutated.
type PageText struct {
	Index int
	Text  string
}

// DocumentType distinguishes invoices from credit memos.
type DocumentType string

const (
	DocInvoice    DocumentType = "invoice"
	DocCreditMemo DocumentType = "credit_memo"
)

// SupplierType is the coarse supplier category used by reconciliation and
// reporting.
type SupplierType string

const (
	SupplierChryslerCorp   SupplierType = "chrysler_corp"
	SupplierSelf           SupplierType = "self"
	SupplierChryslerDealer SupplierType = "chrysler_dealer"
	SupplierTire           SupplierType = "tire"
	SupplierGeneral        SupplierType = "general"
)

// D2DType qualifies a dealer-to-dealer transfer document.
type D2DType string

const (
	D2DObsolete      D2DType = "OBSOLETE"
	D2DGuaranteedInv D2DType = "GUARANTEED_INV"
	D2DBackorder     D2DType = "BACKORDER"
)

// HeaderFields holds the invoice header recovered from page text.
type HeaderFields struct {
	InvoiceNumber *string
	InvoiceDate   *string // ISO yyyy-mm-dd
	PONumber      *string
	SupplierName  *string
	SupplierType  SupplierType
	DocumentType  DocumentType

	// FCA only.
	IsD2D   bool
	D2DType D2DType
}

// LineItem is one structured line recovered from invoice text. The boolean
// flags feed later GL classification.
type LineItem struct {
	RawLine     string
	PartNumber  *string
	Description *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	LineTotal   *decimal.Decimal

	IsCore     bool
	IsEnvFee   bool
	IsFreight  bool
	IsDiscount bool
}

// Invoice is one assembled invoice: header fields, totals, line items, and
// the original page indices it was built from.
type Invoice struct {
	Header    HeaderFields
	Subtotal  *decimal.Decimal
	Taxes     map[string]decimal.Decimal
	Total     *decimal.Decimal
	Pages     []int
	LineItems []LineItem
	RawText   string
}

// FirstPage returns the lowest original page index, used for document-order
// sorting. Returns 0 for an invoice with no pages.
func (inv *Invoice) FirstPage() int {
	if len(inv.Pages) == 0 {
		return 0
	}
	first := inv.Pages[0]
	for _, p := range inv.Pages[1:] {
		if p < first {
			first = p
		}
	}
	return first
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SuggestedName builds a filesystem-safe name for the per-invoice output
// document, from supplier and invoice number where known. seq disambiguates
// invoices with no readable number.
func (inv *Invoice) SuggestedName(seq int) string {
	parts := make([]string, 0, 2)
	if inv.Header.SupplierName != nil {
		parts = append(parts, *inv.Header.SupplierName)
	}
	if inv.Header.InvoiceNumber != nil {
		parts = append(parts, *inv.Header.InvoiceNumber)
	} else {
		parts = append(parts, "invoice_"+strconv.Itoa(seq))
	}
	return unsafeNameChars.ReplaceAllString(strings.Join(parts, "_"), "_")
}

// StrPtr returns a pointer to s, or nil when s is empty after trimming.
func StrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

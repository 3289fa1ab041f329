// Package glcoding maps an assembled invoice's monetary buckets onto the
// fixed general-ledger account layout used for posting. The mapping is a
// pure function: signs come in already encoded (credit memos carry negative
// amounts), so invoices and credit memos share one formula.
package glcoding

import (
	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

// Ledger account codes.
const (
	AccountParts     = "104000"
	AccountFreight   = "704004"
	AccountDiscounts = "604900"
	AccountGST       = "201105"
)

// Line is one coding row: fixed account, description, rounded amount.
type Line struct {
	Account     string          `json:"account"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Amounts are the monetary buckets coding draws from. For FCA documents
// these come from the summary block; generic invoices fill only Subtotal,
// Freight, TaxAmount.
type Amounts struct {
	Subtotal              decimal.Decimal
	Freight               decimal.Decimal
	EnvFees               decimal.Decimal
	TaxAmount             decimal.Decimal
	DiscountsEarned       decimal.Decimal
	DealerGeneratedReturn decimal.Decimal
	DepositValues         decimal.Decimal
}

// Code produces the four ledger lines for an invoice:
//
//	104000 Parts:     subtotal + dealer generated return + deposit values + env fees
//	704004 Freight:   locator + transportation
//	604900 Discounts: discounts earned (credit)
//	201105 GST/HST:   tax amount
func Code(a Amounts, docType invoice.DocumentType) []Line {
	parts := a.Subtotal.
		Add(a.DealerGeneratedReturn).
		Add(a.DepositValues).
		Add(a.EnvFees)

	label := "Invoice"
	if docType == invoice.DocCreditMemo {
		label = "Credit Memo"
	}

	return []Line{
		{Account: AccountParts, Description: "Parts (" + label + ")", Amount: parts.Round(2)},
		{Account: AccountFreight, Description: "Freight, locator and transportation (" + label + ")", Amount: a.Freight.Round(2)},
		{Account: AccountDiscounts, Description: "Discounts credit (" + label + ")", Amount: a.DiscountsEarned.Round(2)},
		{Account: AccountGST, Description: "GST/HST (" + label + ")", Amount: a.TaxAmount.Round(2)},
	}
}

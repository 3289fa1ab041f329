// Package fca parses FCA / Mopar Canada parts invoices and credit memos.
// These documents are fixed-layout statements: pages group by the printed
// INVOICE NUMBER (or CREDIT MEMO NUMBER), part detail comes from numbered
// Mopar lines, and authoritative totals come from the SUMMARY block rather
// than from line sums.
package fca

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

// ErrMissingHeader reports a document routed to the FCA parser that lacks
// the header fields the layout guarantees: no invoice or credit-memo number
// groups at all, or a group without a parsable date.
var ErrMissingHeader = errors.New("fca: missing invoice header")

// Header carries the per-invoice amounts derived from the SUMMARY block.
type Header struct {
	InvoiceNumber string
	InvoiceDate   string // ISO yyyy-mm-dd
	DocumentType  invoice.DocumentType
	IsD2D         bool
	D2DType       invoice.D2DType

	Subtotal    decimal.Decimal // TOTAL GROSS AMOUNT
	Freight     decimal.Decimal // locator charge + transportation
	EnvFees     decimal.Decimal // env container + env lubricant
	TaxAmount   decimal.Decimal // GST/HST
	TotalAmount decimal.Decimal // NET INVOICE AMOUNT, or computed

	DiscountsEarned       decimal.Decimal
	DealerGeneratedReturn decimal.Decimal
	DepositValues         decimal.Decimal
}

// Document is one parsed FCA invoice or credit memo.
type Document struct {
	Header        Header
	Lines         []Line
	Pages         []int
	SubtotalLines decimal.Decimal
}

var (
	reInvoiceNumber = regexp.MustCompile(`(?i)INVOICE NUMBER:\s*([A-Z0-9\s]+)`)
	reCreditNumber  = regexp.MustCompile(`(?i)CREDIT MEMO NUMBER:\s*([A-Z0-9\s]+)`)
	reInvoiceDate   = regexp.MustCompile(`(?i)INVOICE DATE\s*:?\s*(.+)`)
	reCreditDate    = regexp.MustCompile(`(?i)CREDIT MEMO DATE\s*:?\s*(.+)`)

	reTwoWordAddr = regexp.MustCompile(`\s+[A-Z]{2,}\s+[A-Z]{2,}.*$`)
	reOneWordAddr = regexp.MustCompile(`\s+[A-Z]{2,}.*$`)
)

type group struct {
	number   string
	dateStr  string
	isCredit bool
	pages    []invoice.PageText
}

// cleanNumber trims address text that PDF extraction runs into the captured
// number span ("123456 MAPLE RIDGE CHRYSLER ...").
func cleanNumber(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = reTwoWordAddr.ReplaceAllString(s, "")
	s = reOneWordAddr.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// groupPages buckets pages by their printed document number, carrying the
// first date seen and a sticky credit-memo flag. Group order follows first
// appearance in the document.
func groupPages(pages []invoice.PageText) []*group {
	var order []*group
	byNumber := make(map[string]*group)

	for _, page := range pages {
		if page.Text == "" {
			continue
		}

		m := reInvoiceNumber.FindStringSubmatch(page.Text)
		isCredit := false
		if m == nil {
			m = reCreditNumber.FindStringSubmatch(page.Text)
			isCredit = true
		}
		if m == nil {
			continue
		}
		number := cleanNumber(m[1])
		if number == "" {
			continue
		}

		dateStr := ""
		if dm := reInvoiceDate.FindStringSubmatch(page.Text); dm != nil {
			dateStr = strings.TrimSpace(dm[1])
		} else if dm := reCreditDate.FindStringSubmatch(page.Text); dm != nil {
			dateStr = strings.TrimSpace(dm[1])
		}

		g, ok := byNumber[number]
		if !ok {
			g = &group{number: number, isCredit: isCredit}
			byNumber[number] = g
			order = append(order, g)
		}
		if g.dateStr == "" && dateStr != "" {
			g.dateStr = dateStr
		}
		if isCredit || strings.Contains(strings.ToUpper(page.Text), "CREDIT MEMORANDUM") {
			g.isCredit = true
		}
		g.pages = append(g.pages, page)
	}

	return order
}

func normalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Parse extracts every FCA invoice and credit memo from the given pages.
// Pages that name no document number (cover and remittance pages) are
// skipped; a document with no groups at all, or a group whose date cannot
// be parsed, fails with ErrMissingHeader.
func Parse(pages []invoice.PageText) ([]Document, error) {
	groups := groupPages(pages)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no invoice or credit memo number found", ErrMissingHeader)
	}

	docs := make([]Document, 0, len(groups))
	for _, g := range groups {
		dateISO, ok := normalizeDate(g.dateStr)
		if !ok {
			return nil, fmt.Errorf("%w: invoice %s has no parsable date (%q)", ErrMissingHeader, g.number, g.dateStr)
		}

		texts := make([]string, len(g.pages))
		pageIdx := make([]int, len(g.pages))
		for i, p := range g.pages {
			texts[i] = p.Text
			pageIdx[i] = p.Index
		}

		lines, lineSum := parseLines(texts, g.isCredit)
		summary := parseSummary(texts, g.isCredit)
		isD2D, d2dType := detectD2D(texts)

		envTotal := summary.EnvContainer.Add(summary.EnvLubricant)
		freightTotal := summary.LocatorCharge.Add(summary.Transportation)

		subtotal := summary.Gross
		computedTotal := subtotal.
			Sub(summary.DiscountsEarned).
			Add(summary.DealerGeneratedReturn).
			Add(summary.DepositValues).
			Add(freightTotal).
			Add(envTotal).
			Add(summary.GST)

		totalAmount := summary.NetInvoice
		if totalAmount.IsZero() {
			totalAmount = computedTotal
		}

		docType := invoice.DocInvoice
		if g.isCredit {
			docType = invoice.DocCreditMemo
		}

		docs = append(docs, Document{
			Header: Header{
				InvoiceNumber: g.number,
				InvoiceDate:   dateISO,
				DocumentType:  docType,
				IsD2D:         isD2D,
				D2DType:       d2dType,

				Subtotal:    subtotal.Round(2),
				Freight:     freightTotal.Round(2),
				EnvFees:     envTotal.Round(2),
				TaxAmount:   summary.GST.Round(2),
				TotalAmount: totalAmount.Round(2),

				DiscountsEarned:       summary.DiscountsEarned.Round(2),
				DealerGeneratedReturn: summary.DealerGeneratedReturn.Round(2),
				DepositValues:         summary.DepositValues.Round(2),
			},
			Lines:         lines,
			Pages:         pageIdx,
			SubtotalLines: lineSum.Round(2),
		})
	}

	return docs, nil
}

// detectD2D looks for dealer-to-dealer transfer markers. A bare D2D token
// is not enough: it must appear in header context (WEEKLY D2D, or alongside
// credit-memo wording), since part descriptions occasionally contain the
// token too.
func detectD2D(pageTexts []string) (bool, invoice.D2DType) {
	combined := strings.ToUpper(strings.Join(pageTexts, " "))

	hasToken := strings.Contains(combined, "D2D") ||
		strings.Contains(combined, "D 2 D") ||
		strings.Contains(combined, "D-2-D")
	if !hasToken {
		return false, ""
	}

	headerContext := strings.Contains(combined, "WEEKLY D2D") ||
		strings.Contains(combined, "WEEKLY D 2 D") ||
		(strings.Contains(combined, "D2D") &&
			(strings.Contains(combined, "CREDIT MEMO") || strings.Contains(combined, "CREDIT MEMORANDUM")))
	if !headerContext {
		return false, ""
	}

	switch {
	case strings.Contains(combined, "D2D OBSOLETE"), strings.Contains(combined, "D 2 D OBSOLETE"):
		return true, invoice.D2DObsolete
	case strings.Contains(combined, "D2D GUARANTEED"), strings.Contains(combined, "D 2 D GUARANTEED"):
		return true, invoice.D2DGuaranteedInv
	case strings.Contains(combined, "D2D BACKORDER"), strings.Contains(combined, "D 2 D BACKORDER"):
		return true, invoice.D2DBackorder
	}
	return true, ""
}

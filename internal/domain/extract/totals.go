package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/pkg/money"
)

// Totals holds the summary amounts recovered from a page. Nil means the
// amount was not printed (or not recovered); an empty tax map means no tax
// lines matched.
type Totals struct {
	Subtotal *decimal.Decimal
	Taxes    map[string]decimal.Decimal
	Total    *decimal.Decimal
}

var (
	reWS         = regexp.MustCompile(`\s+`)
	reSubtotal   = regexp.MustCompile(`(?i)\bSUB[- ]?TOTAL\b.*?(\d+\.\d{2})`)
	reFirstMoney = regexp.MustCompile(`(\d+\.\d{2})`)
	reTotalLine  = regexp.MustCompile(`(?i)(?:^|\s)TOTAL\b[^0-9]*(\d+\.\d{2})`)

	reTaxLines = map[string]*regexp.Regexp{
		"GST": regexp.MustCompile(`(?i)GST[^0-9]*(\d+\.\d{2})`),
		"PST": regexp.MustCompile(`(?i)PST[^0-9]*(\d+\.\d{2})`),
		"HST": regexp.MustCompile(`(?i)HST[^0-9]*(\d+\.\d{2})`),
	}

	rePONumber  = regexp.MustCompile(`(?i)\bPO\s*(?:NO|NUMBER|#)?[:\s]+([A-Z0-9\-]+)`)
	rePOHashAlt = regexp.MustCompile(`(?i)\bP\.?O\.?\s*#\s*([A-Z0-9\-]+)`)
)

// Totals scans line by line for summary amounts. The subtotal keeps its
// first match (summary blocks repeat it lower down with other meanings);
// taxes and the grand total keep their last match, since running totals
// precede the final one. Weight lines ("TOTAL WGT") never count as money.
func (e *Extractor) Totals(text string) Totals {
	out := Totals{Taxes: map[string]decimal.Decimal{}}

	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(reWS.ReplaceAllString(line, " "))
		up := strings.ToUpper(clean)

		if out.Subtotal == nil {
			if m := reSubtotal.FindStringSubmatch(clean); m != nil {
				if d, err := money.Parse(m[1]); err == nil {
					out.Subtotal = &d
				}
			}
		}

		// NAPA and Langley print "Parts Sale 24.21" instead of a subtotal.
		if out.Subtotal == nil && strings.Contains(up, "PARTS") {
			if strings.Contains(up, "PARTS SALE") || strings.Contains(up, "TOTAL PARTS SALES") {
				if m := reFirstMoney.FindStringSubmatch(clean); m != nil {
					if d, err := money.Parse(m[1]); err == nil {
						out.Subtotal = &d
					}
				}
			}
		}

		for code, re := range reTaxLines {
			if !strings.Contains(up, code) {
				continue
			}
			if m := re.FindStringSubmatch(clean); m != nil {
				if d, err := money.Parse(m[1]); err == nil {
					out.Taxes[code] = d
				}
			}
		}

		// Weight rows, not money.
		if strings.Contains(up, "TOTAL WGT") || strings.Contains(up, "TOTAL WT") {
			continue
		}

		if m := reTotalLine.FindStringSubmatch(clean); m != nil {
			if d, err := money.Parse(m[1]); err == nil {
				out.Total = &d
			}
		}
	}

	return out
}

// PONumber returns the purchase-order reference, or nil.
func (e *Extractor) PONumber(text string) *string {
	for _, re := range []*regexp.Regexp{rePONumber, rePOHashAlt} {
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			return &v
		}
	}
	return nil
}

package fca

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/pkg/money"
)

// Summary holds the labeled amounts of an FCA SUMMARY block. Zero values
// mean the label did not appear.
type Summary struct {
	Gross                 decimal.Decimal
	DiscountsEarned       decimal.Decimal
	DealerGeneratedReturn decimal.Decimal
	LocatorCharge         decimal.Decimal
	DepositValues         decimal.Decimal
	Transportation        decimal.Decimal
	EnvContainer          decimal.Decimal
	EnvLubricant          decimal.Decimal
	GST                   decimal.Decimal
	NetInvoice            decimal.Decimal
}

var (
	rePartLine     = regexp.MustCompile(`^\s*\d+\s+[A-Z0-9]{5,}\s`)
	rePartLineFull = regexp.MustCompile(`^\s*(\d+)\s+([A-Z0-9]{5,})\s+(.*)$`)
	reQtyMoney     = regexp.MustCompile(`\s(\d+)\s+([0-9,]+\.[0-9]{2})`)
	reAmount       = regexp.MustCompile(`([0-9,]+\.[0-9]{2})-?`)
)

// lastAmount returns the last money value on a line, negated when the line
// carries a trailing minus.
func lastAmount(line string) (decimal.Decimal, bool) {
	matches := reAmount.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return decimal.Decimal{}, false
	}
	d, err := money.Parse(matches[len(matches)-1][1])
	if err != nil {
		return decimal.Decimal{}, false
	}
	if strings.HasSuffix(strings.TrimSpace(line), "-") {
		d = d.Abs().Neg()
	}
	return d, true
}

// parseSummary extracts the SUMMARY section amounts. Credit memos often
// carry no SUMMARY block at all, so their gross is the sum of SUB-TOTAL
// lines and the first GST/HST line supplies the tax.
func parseSummary(pageTexts []string, isCredit bool) Summary {
	var s Summary

	if isCredit {
		for _, text := range pageTexts {
			for _, l := range strings.Split(text, "\n") {
				if !strings.Contains(strings.ToUpper(l), "SUB-TOTAL") {
					continue
				}
				if v, ok := lastAmount(l); ok {
					s.Gross = s.Gross.Add(v)
				}
			}
		}
		s.NetInvoice = s.Gross

	taxSearch:
		for _, text := range pageTexts {
			for _, l := range strings.Split(text, "\n") {
				up := strings.ToUpper(l)
				if !strings.Contains(up, "GST") && !strings.Contains(up, "HST") {
					continue
				}
				if v, ok := lastAmount(l); ok {
					s.GST = v
					break taxSearch
				}
			}
		}
		return s
	}

	for _, text := range pageTexts {
		if !strings.Contains(text, "SUMMARY:") {
			continue
		}

		lines := strings.Split(text, "\n")
		start, end := -1, -1
		for i, l := range lines {
			if strings.Contains(l, "SUMMARY:") {
				start = i
			}
			if strings.Contains(l, "NET INVOICE AMOUNT") {
				end = i
			}
		}
		if start < 0 || end < 0 {
			continue
		}

		for _, l := range lines[start : end+1] {
			v, ok := lastAmount(l)
			if !ok {
				continue
			}
			switch {
			case strings.Contains(l, "TOTAL GROSS AMOUNT"):
				s.Gross = v
			case strings.Contains(l, "DISCOUNTS EARNED"):
				s.DiscountsEarned = v
			case strings.Contains(l, "ARC01217"):
				s.DealerGeneratedReturn = v
			case strings.Contains(l, "ARC01222"):
				s.LocatorCharge = v
			case strings.Contains(l, "ARC31101"):
				s.DepositValues = v
			case strings.Contains(l, "ARC45012"):
				s.Transportation = v
			case strings.Contains(l, "ENV.CONTAINER"):
				s.EnvContainer = v
			case strings.Contains(l, "ENV.LUBRICANT"):
				s.EnvLubricant = v
			case strings.Contains(l, "GST/HST"):
				s.GST = v
			case strings.Contains(l, "NET INVOICE AMOUNT"):
				s.NetInvoice = v
			}
		}
		break
	}

	return s
}

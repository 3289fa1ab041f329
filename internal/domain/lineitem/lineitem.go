// Package lineitem recovers structured line items from invoice text. The
// generic pass handles single-line items and split description/price pairs;
// supplier-specific passes repair the layouts the generic pass gets wrong.
package lineitem

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
	"github.com/promiscunix/partsuite/pkg/money"
	"github.com/promiscunix/partsuite/pkg/textmatch"
)

var (
	reLetters   = regexp.MustCompile(`[A-Za-z]`)
	reMoney     = regexp.MustCompile(`\d+\.\d{2}`)
	reDigit     = regexp.MustCompile(`\d`)
	rePureInt   = regexp.MustCompile(`^\d+$`)
	rePureMoney = regexp.MustCompile(`^\d+\.\d{2}$`)
	reCleanTok  = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
	reNonAlnum  = regexp.MustCompile(`[^A-Za-z0-9]`)
	reBareInt   = regexp.MustCompile(`\b\d+\b`)
	reWS        = regexp.MustCompile(`\s+`)

	reStars         = regexp.MustCompile(`\*+`)
	reInternetOrder = regexp.MustCompile(`\b[Ii]nternet\b\s+\b[Oo]rder\b`)
	reMethodTail    = regexp.MustCompile(`\b[Mm]ethod\b\s+\b[Dd]ate\b\s+\b[Tt]erms\b.*`)
	reLeadingQty    = regexp.MustCompile(`^\s*\d+\s+`)
)

// Extractor runs the line-item heuristics. Construction compiles the
// screening sets once; the extractor is safe for concurrent use.
type Extractor struct {
	blacklist  *textmatch.Set
	headerToks *textmatch.Set
	actionStop *textmatch.Set
}

// New builds an Extractor with the production screening sets.
func New() *Extractor {
	return &Extractor{
		// Lines that carry money but are never items.
		blacklist: textmatch.NewSet([]string{
			"SUB-TOTAL", "SUBTOTAL",
			"GST", "PST", "HST", "TOTAL",
			"INVOICE NUMBER", "INVOICE DATE",
			"PAYMENT TERMS", "STORE #",
			"BILL TO", "SHIP TO",
			"WWW.", "PARTSOURCE.CA",
			"MERCHANDISE RETURNS",
			"RECEIVED BY (FULL NAME)",
		}),
		// Header and boilerplate markers for the Lordco fallback pass.
		headerToks: textmatch.NewSet([]string{
			"INVOICE", "STATEMENT",
			"SUBTOTAL", "SUB-TOTAL", "TOTAL",
			"GST", "PST", "HST",
			"ACCOUNT", "CUSTOMER",
			"BILL TO", "SHIP TO",
			"MAPLE RIDGE", "WEB ORDER",
			"VIN", "REGISTRATION", "OW ID",
		}),
		// Markers that end the search for a description line below an item.
		actionStop: textmatch.NewSet([]string{
			"INVOICE", "TOTAL", "SUBTOTAL", "SUB-TOTAL",
			"GST", "PST", "HST", "BILL TO", "SHIP TO",
		}),
	}
}

func (x *Extractor) isCandidate(line string) bool {
	if !reLetters.MatchString(line) {
		return false
	}
	if !reMoney.MatchString(line) {
		return false
	}
	return !x.blacklist.Contains(line)
}

// Extract returns the line items found in text. A line qualifies on its own
// when it has letters, at least one money value, and no summary keyword; a
// letters-only line followed by a money-only line merges into one item.
func (x *Extractor) Extract(text string) []invoice.LineItem {
	var items []invoice.LineItem
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		if line == "" {
			continue
		}

		candidate := ""
		switch {
		case x.isCandidate(line):
			candidate = line
		case reLetters.MatchString(line) && !reMoney.MatchString(line) && i+1 < len(lines):
			next := strings.TrimRight(lines[i+1], " \t")
			if reMoney.MatchString(next) && !reLetters.MatchString(next) {
				candidate = line + " " + next
				i++
			}
		}
		if candidate == "" {
			continue
		}

		items = append(items, x.parseCandidate(candidate))
	}
	return items
}

// parseCandidate turns one merged candidate line into a LineItem. The last
// money value is the line total, the one before it the unit price; the part
// number is the best-scoring code-shaped token.
func (x *Extractor) parseCandidate(raw string) invoice.LineItem {
	item := invoice.LineItem{RawLine: raw}

	moneyVals := reMoney.FindAllString(raw, -1)
	if len(moneyVals) > 0 {
		if d, err := money.Parse(moneyVals[len(moneyVals)-1]); err == nil {
			item.LineTotal = &d
		}
		if len(moneyVals) >= 2 {
			if d, err := money.Parse(moneyVals[len(moneyVals)-2]); err == nil {
				item.UnitPrice = &d
			}
		}
	}

	tokens := strings.Fields(raw)
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}

	part := ""
	bestScore := 0
	for idx, tok := range tokens {
		t := strings.TrimSpace(tok)

		// Early small integers are quantity columns.
		if idx <= 2 && rePureInt.MatchString(t) {
			if n, err := strconv.Atoi(t); err == nil && n <= 10 {
				continue
			}
		}
		// Pure decimals are money.
		if rePureMoney.MatchString(t) {
			continue
		}
		// Short digit runs are quantities or line indices. Long digit
		// codes can still be parts.
		if rePureInt.MatchString(t) && len(t) < 6 {
			continue
		}
		if strings.Contains(t, `"`) {
			continue
		}
		if !reDigit.MatchString(t) {
			continue
		}
		if !reCleanTok.MatchString(t) {
			continue
		}

		score := 1
		if freq[t] > 1 {
			score += 2
		}
		if reLetters.MatchString(t) {
			score += 1
		}
		if score > bestScore {
			bestScore = score
			part = t
		}
	}
	if part != "" {
		item.PartNumber = &part
	}

	// Description sits between the part number and the first money value.
	if part != "" && len(moneyVals) > 0 {
		start := strings.Index(raw, part) + len(part)
		end := strings.LastIndex(raw, moneyVals[0])
		if end > start {
			if desc := strings.TrimSpace(raw[start:end]); desc != "" {
				item.Description = &desc
			}
		}
	}

	return item
}

// CleanSummaryRows drops items that are really summary lines: no part, no
// description, and a line total equal to the subtotal, the total, or zero.
func (x *Extractor) CleanSummaryRows(items []invoice.LineItem, subtotal, total *decimal.Decimal) []invoice.LineItem {
	cleaned := items[:0:0]
	for _, li := range items {
		if isBlank(li.PartNumber) && isBlank(li.Description) && li.LineTotal != nil {
			if subtotal != nil && money.EqualWithinCent(*li.LineTotal, *subtotal) {
				continue
			}
			if total != nil && money.EqualWithinCent(*li.LineTotal, *total) {
				continue
			}
			if li.LineTotal.Abs().LessThan(decimal.NewFromFloat(0.001)) {
				continue
			}
		}
		cleaned = append(cleaned, li)
	}
	return cleaned
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// AugmentActionDescriptions repairs Action Car & Truck items, where the real
// description prints on the line below the part+price line:
//
//	ACTLED-PHISO12-L ... 104.95
//	9012 HEAT INJECTED PREMIUM SERIES
//
// The first description-only line below each part line replaces whatever
// the generic pass extracted.
func (x *Extractor) AugmentActionDescriptions(text string, items []invoice.LineItem) []invoice.LineItem {
	if len(items) == 0 {
		return items
	}
	lines := strings.Split(text, "\n")

	for i := range items {
		if items[i].PartNumber == nil {
			continue
		}
		part := *items[i].PartNumber

		baseIdx := -1
		for idx, line := range lines {
			if strings.Contains(line, part) {
				baseIdx = idx
				break
			}
		}
		if baseIdx < 0 {
			continue
		}

		for j := baseIdx + 1; j < len(lines); j++ {
			peek := strings.TrimSpace(lines[j])
			if peek == "" {
				continue
			}
			if !reLetters.MatchString(peek) || reMoney.MatchString(peek) {
				break
			}
			if x.actionStop.Contains(peek) {
				break
			}
			desc := peek
			items[i].Description = &desc
			break
		}
	}
	return items
}

// LordcoFallback is the lenient pass for Lordco invoices the generic
// heuristics found no items in. A first pass counts code-shaped tokens
// (mixed letters and digits, 5+ characters) across the page; a second pass
// only trusts tokens seen at least twice, which weeds out VINs, order IDs,
// and header codes.
func (x *Extractor) LordcoFallback(text string) []invoice.LineItem {
	var items []invoice.LineItem
	lines := strings.Split(text, "\n")

	counts := make(map[string]int)
	for _, line := range lines {
		if x.headerToks.Contains(line) {
			continue
		}
		for _, tok := range strings.Fields(line) {
			clean := reNonAlnum.ReplaceAllString(tok, "")
			if len(clean) < 5 || !reLetters.MatchString(clean) || !reDigit.MatchString(clean) {
				continue
			}
			counts[clean]++
		}
	}
	if len(counts) == 0 {
		return items
	}

	seenNoPrice := make(map[string]bool)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || x.headerToks.Contains(line) {
			continue
		}

		var partCandidates []string
		for _, tok := range strings.Fields(line) {
			clean := reNonAlnum.ReplaceAllString(tok, "")
			if len(clean) < 5 || !reLetters.MatchString(clean) || !reDigit.MatchString(clean) {
				continue
			}
			if counts[clean] >= 2 {
				partCandidates = append(partCandidates, clean)
			}
		}
		if len(partCandidates) == 0 {
			continue
		}

		itemLine := line
		moneyVals := reMoney.FindAllString(itemLine, -1)

		if len(moneyVals) == 0 && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			nextMoney := reMoney.FindAllString(next, -1)
			if len(nextMoney) > 0 && !reLetters.MatchString(next) {
				itemLine = itemLine + " " + next
				moneyVals = nextMoney
				i++
			}
		}

		var lineTotal *decimal.Decimal
		if len(moneyVals) > 0 {
			if d, err := money.Parse(moneyVals[len(moneyVals)-1]); err == nil {
				lineTotal = &d
			}
		}

		part := partCandidates[0]

		// A part repeated across price-less lines only becomes one item.
		if lineTotal == nil {
			if seenNoPrice[part] {
				continue
			}
			seenNoPrice[part] = true
		}

		desc := itemLine
		desc = strings.ReplaceAll(desc, part, "")
		desc = reBareInt.ReplaceAllString(desc, "")
		for _, mv := range moneyVals {
			desc = strings.ReplaceAll(desc, mv, "")
		}
		desc = strings.TrimSpace(desc)

		if len(desc) < 3 && i+1 < len(lines) {
			peek := strings.TrimSpace(lines[i+1])
			if reLetters.MatchString(peek) && !reMoney.MatchString(peek) && !x.headerToks.Contains(peek) {
				desc = peek
				i++
			}
		}

		if desc != "" {
			desc = NormalizeLordcoDescription(desc)
		}

		items = append(items, invoice.LineItem{
			RawLine:     itemLine,
			PartNumber:  &part,
			Description: invoice.StrPtr(desc),
			LineTotal:   lineTotal,
		})
	}

	return items
}

// NormalizeLordcoDescription strips Lordco boilerplate from a description:
//
//	"** Internet  Order  **TIE ROD ENDMethod Date Terms" -> "TIE ROD END"
func NormalizeLordcoDescription(desc string) string {
	s := reStars.ReplaceAllString(desc, " ")
	s = reInternetOrder.ReplaceAllString(s, " ")
	s = reMethodTail.ReplaceAllString(s, "")
	s = reLeadingQty.ReplaceAllString(s, " ")
	return strings.TrimSpace(reWS.ReplaceAllString(s, " "))
}

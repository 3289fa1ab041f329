package fca

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/pkg/money"
)

// Line is one numbered Mopar part line, with the order context in effect
// where the line appeared.
type Line struct {
	LineNumber   int
	PartNumber   string
	Description  string
	QtyBilled    int
	UnitCost     decimal.Decimal
	ExtendedCost decimal.Decimal

	Location    string
	OrderNumber string
	OrderType   string
	OrderDate   string
}

// orderContext is established by an ORD# header line and applies to the
// part lines that follow it:
//
//	0310300-3618853 ORD#: T1103F  O/T:E DATE:  2025-11-03
type orderContext struct {
	location    string
	orderNumber string
	orderType   string
	orderDate   string
}

func parseOrderHeader(line string) (orderContext, bool) {
	if !strings.Contains(line, "ORD#:") || !strings.Contains(line, "DATE:") {
		return orderContext{}, false
	}
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return orderContext{}, false
	}

	ctx := orderContext{location: tokens[0]}
	for i, tok := range tokens {
		switch {
		case tok == "ORD#:" && i+1 < len(tokens):
			ctx.orderNumber = tokens[i+1]
		case strings.HasPrefix(tok, "O/T:"):
			ctx.orderType = strings.TrimPrefix(tok, "O/T:")
		case tok == "DATE:" && i+1 < len(tokens):
			ctx.orderDate = tokens[i+1]
		}
	}
	return ctx, true
}

// parseLines walks the combined page lines, tracking ORD# context and
// collecting numbered part lines. Returns the lines and the running sum of
// extended costs (informational; summary totals are authoritative).
func parseLines(pageTexts []string, isCredit bool) ([]Line, decimal.Decimal) {
	var combined []string
	for _, t := range pageTexts {
		combined = append(combined, strings.Split(t, "\n")...)
	}

	var (
		lines   []Line
		lineSum decimal.Decimal
		counter int
		ctx     orderContext
	)

	for _, raw := range combined {
		if c, ok := parseOrderHeader(raw); ok {
			ctx = c
			continue
		}

		if !rePartLine.MatchString(raw) {
			continue
		}
		m := rePartLineFull.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		partNumber := m[2]
		rest := m[3]

		qm := reQtyMoney.FindStringSubmatchIndex(rest)
		if qm == nil {
			continue
		}
		qty, err := strconv.Atoi(rest[qm[2]:qm[3]])
		if err != nil {
			continue
		}

		amountStrs := reAmount.FindAllStringSubmatch(rest, -1)
		var amounts []decimal.Decimal
		for _, am := range amountStrs {
			if d, perr := money.Parse(am[1]); perr == nil {
				amounts = append(amounts, d)
			}
		}

		// Credit memos print negatives as a trailing minus: "200.00-".
		negative := strings.HasSuffix(strings.TrimSpace(rest), "-") ||
			(isCredit && len(amounts) > 0)

		var unitCost, extendedCost decimal.Decimal
		if len(amounts) > 0 {
			unitCost = amounts[0]
			extendedCost = amounts[len(amounts)-1]
		}
		if negative {
			unitCost = unitCost.Abs().Neg()
			extendedCost = extendedCost.Abs().Neg()
		}

		counter++
		lines = append(lines, Line{
			LineNumber:   counter,
			PartNumber:   partNumber,
			Description:  strings.TrimRight(rest[:qm[0]], " \t"),
			QtyBilled:    qty,
			UnitCost:     unitCost,
			ExtendedCost: extendedCost,

			Location:    ctx.location,
			OrderNumber: ctx.orderNumber,
			OrderType:   ctx.orderType,
			OrderDate:   ctx.orderDate,
		})
		lineSum = lineSum.Add(extendedCost)
	}

	return lines, lineSum
}

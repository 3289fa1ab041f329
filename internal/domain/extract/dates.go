package extract

import (
	"regexp"
	"time"
)

var (
	reInvDateLabel = regexp.MustCompile(`(?i)INVOICE\s+DATE[:\s]+([A-Za-z0-9,/\-\s]+)`)
	reTermsDate    = regexp.MustCompile(`(?i)TERMS\s*:[0-9]{4,}\s+[0-9]{4,}\s+(\d{4}-\d{2}-\d{2})`)
	rePayRefDate   = regexp.MustCompile(`(?i)PAYMENTREF:\s*[0-9]{4,}\s+NUMBER:\s*[0-9]{4,}\s+DATE:\s*(\d{4}-\d{2}-\d{2})`)
	reInlineDate   = regexp.MustCompile(`(?i)INVOICE\s*[0-9]{4,}\s+[0-9]{4,}\s+(\d{4}-\d{2}-\d{2})`)
	reSlashDate    = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})`)
	reISODate      = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	reMonthDate    = regexp.MustCompile(`(?i)([A-Z]+\s+\d{1,2},?\s+\d{4})`)
)

// InvoiceDate runs the invoice-date cascade and returns an ISO yyyy-mm-dd
// string, or nil. The structural rules mirror the invoice-number cascade
// (the date is co-located with the number in those layouts); the tail rules
// accept slash dates and any bare ISO date. Every parsed date passes
// through OCR year correction.
func (e *Extractor) InvoiceDate(text string) *string {
	// Explicit "INVOICE DATE: ..." label, any date shape after it.
	if m := reInvDateLabel.FindStringSubmatch(text); m != nil {
		if t, ok := e.parseLooseDate(m[1]); ok {
			iso := e.normalizeYear(t).Format("2006-01-02")
			return &iso
		}
	}

	// Ref/number/date triplets print the date already in ISO form.
	for _, re := range []*regexp.Regexp{reTermsDate, rePayRefDate, reInlineDate} {
		if m := re.FindStringSubmatch(text); m != nil {
			iso := m[1]
			return &iso
		}
	}

	// Slash dates like 11/06/2025 or 11/05/25, month first.
	if m := reSlashDate.FindStringSubmatch(text); m != nil {
		if t, ok := parseSlashDate(m[1]); ok {
			iso := e.normalizeYear(t).Format("2006-01-02")
			return &iso
		}
	}

	// Any bare ISO date, still year-corrected.
	if m := reISODate.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			iso := e.normalizeYear(t).Format("2006-01-02")
			return &iso
		}
		raw := m[1]
		return &raw
	}

	return nil
}

// parseLooseDate finds a date anywhere inside a noisy captured span: the
// label capture is greedy and often drags surrounding words along.
func (e *Extractor) parseLooseDate(cand string) (time.Time, bool) {
	if m := reISODate.FindStringSubmatch(cand); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t, true
		}
	}
	if m := reSlashDate.FindStringSubmatch(cand); m != nil {
		if t, ok := parseSlashDate(m[1]); ok {
			return t, true
		}
	}
	if m := reMonthDate.FindStringSubmatch(cand); m != nil {
		for _, layout := range []string{"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006"} {
			if t, err := time.Parse(layout, m[1]); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseSlashDate(s string) (time.Time, bool) {
	for _, layout := range []string{"1/2/2006", "1/2/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeYear fixes the common OCR last-digit misread that pushes a year
// a decade forward (2025 scanned as 2035). A year more than one year in the
// future whose minus-10 value lands within 5 years of the current year is
// assumed to be such a slip.
func (e *Extractor) normalizeYear(t time.Time) time.Time {
	year := t.Year()
	current := e.now().Year()
	if year > current+1 && year-10 >= 2000 {
		if abs((year-10)-current) <= 5 {
			return t.AddDate(-10, 0, 0)
		}
	}
	return t
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

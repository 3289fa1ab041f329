package extract

import (
	"regexp"
	"strings"
)

// numberRule is one entry in the invoice-number cascade. Rules are tried in
// order and the first non-empty result wins.
type numberRule struct {
	name string
	fn   func(text string) string
}

var (
	rePaymentRef = regexp.MustCompile(`(?i)PAYMENTREF:\s*[0-9]{4,}\s+NUMBER:\s*([0-9]{4,})\s+DATE:\s*\d{4}-\d{2}-\d{2}`)
	reTermsRef   = regexp.MustCompile(`(?i)TERMS\s*:([0-9]{4,})\s+([0-9]{4,})\s+\d{4}-\d{2}-\d{2}`)
	reInlineInv  = regexp.MustCompile(`(?i)INVOICE\s*([0-9]{4,})\s+([0-9]{4,})\s+\d{4}-\d{2}-\d{2}`)
	reInvNumber  = regexp.MustCompile(`(?i)\bINVOICE\s+NUMBER[:\s]+([A-Z0-9\-]+)`)
	reInvColon   = regexp.MustCompile(`(?i)\bInvoice\s*:\s*([0-9]{6,})`)
	reOiceHash   = regexp.MustCompile(`(?i)\b\w*oice\s*#\s*([0-9]{6,})`)
	reBranchNum  = regexp.MustCompile(`(\d{3})\s*[-–]?\s*(\d{6,})`)
	reBareBranch = regexp.MustCompile(`\b(\d{3}-\d{6,})\b`)

	reTrailingJunk = regexp.MustCompile(`[^\w\-]+$`)
	reNonNumDash   = regexp.MustCompile(`[^0-9\-]`)
	reDigitRun     = regexp.MustCompile(`\d{3,}`)
)

// numberCascade covers the layout variants seen so far:
//
//   - PAYMENTREF: 309043 / NUMBER: 258489 / DATE: 2025-11-07
//   - TERMS :309068  258537  2025-11-08  (ref / number / date)
//   - INVOICE309730  258793  2025-11-10
//   - INVOICE NUMBER 397-190129
//   - Invoice : 52813328
//   - Invoice # 8910181680, OCR'd as "cHiwoice # 8910181680"
//   - branch-hyphen numbers like 397-190218 on a line mentioning "invoice",
//     tolerating odd dashes and spacing
//   - last resort, a bare 397-190129 style pattern anywhere
var numberCascade = []numberRule{
	{"paymentref", func(text string) string {
		if m := rePaymentRef.FindStringSubmatch(text); m != nil {
			return cleanInvoiceToken(m[1])
		}
		return ""
	}},
	{"terms", func(text string) string {
		if m := reTermsRef.FindStringSubmatch(text); m != nil {
			return cleanInvoiceToken(m[2])
		}
		return ""
	}},
	{"inline", func(text string) string {
		if m := reInlineInv.FindStringSubmatch(text); m != nil {
			return cleanInvoiceToken(m[2])
		}
		return ""
	}},
	{"invoice-number", func(text string) string {
		if m := reInvNumber.FindStringSubmatch(text); m != nil {
			return cleanInvoiceToken(m[1])
		}
		return ""
	}},
	{"invoice-colon", func(text string) string {
		if m := reInvColon.FindStringSubmatch(text); m != nil {
			return cleanInvoiceToken(m[1])
		}
		return ""
	}},
	{"oice-hash", func(text string) string {
		if m := reOiceHash.FindStringSubmatch(text); m != nil {
			return cleanInvoiceToken(m[1])
		}
		return ""
	}},
	{"branch-line", func(text string) string {
		for _, line := range strings.Split(text, "\n") {
			if !strings.Contains(strings.ToLower(line), "invoice") {
				continue
			}
			if m := reBranchNum.FindStringSubmatch(line); m != nil {
				return m[1] + "-" + m[2]
			}
		}
		return ""
	}},
	{"bare-branch", func(text string) string {
		if m := reBareBranch.FindStringSubmatch(text); m != nil {
			return m[1]
		}
		return ""
	}},
}

// InvoiceNumber runs the invoice-number cascade over text and returns the
// first rule's hit, or nil when nothing matched.
func (e *Extractor) InvoiceNumber(text string) *string {
	for _, rule := range numberCascade {
		if v := rule.fn(text); v != "" {
			return &v
		}
	}
	return nil
}

// cleanInvoiceToken strips OCR junk from a captured invoice token. Branch
// numbers like "397-190129" keep digits and the hyphen; junk like
// "258284PARTSOURCE" reduces to its first run of 3+ digits.
func cleanInvoiceToken(val string) string {
	val = strings.TrimSpace(val)
	val = reTrailingJunk.ReplaceAllString(val, "")

	if strings.Contains(val, "-") {
		return reNonNumDash.ReplaceAllString(val, "")
	}
	if m := reDigitRun.FindString(val); m != "" {
		return m
	}
	return val
}

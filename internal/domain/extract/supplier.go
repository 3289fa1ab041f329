package extract

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

// SupplierRule maps a regex over the raw page text to a display name.
// Several entries exist purely to absorb OCR corruption of the same brand.
type SupplierRule struct {
	Pattern *regexp.Regexp
	Name    string
}

// BrandAlias is a known brand token used by the fuzzy recovery pass.
type BrandAlias struct {
	Token string
	Name  string
}

func defaultSupplierRules() []SupplierRule {
	return []SupplierRule{
		{regexp.MustCompile(`(?i)NAPA\s+PORT\s+KELLS`), "NAPA Port Kells"},
		{regexp.MustCompile(`(?i)\bNAPA\b`), "NAPA"},

		{regexp.MustCompile(`(?i)\bLORDCO\b`), "Lordco Auto Parts"},
		// OCR reads the C as a G often enough to warrant its own entry.
		{regexp.MustCompile(`(?i)\bLORDGO\b`), "Lordco Auto Parts"},
		{regexp.MustCompile(`(?i)= AUTO PA`), "Lordco Auto Parts"},

		{regexp.MustCompile(`(?i)ACTION\s+CAR\s+AND\s+TRUCK`), "Action Car & Truck"},
		{regexp.MustCompile(`(?i)CAR AND TRUCK ACCESSORIES`), "Action Car & Truck"},

		{regexp.MustCompile(`(?i)\bPARTSOURCE\b`), "PartSource"},
		{regexp.MustCompile(`(?i)The Parts[., ]+The Pros[., ]+The Price`), "PartSource"},
		{regexp.MustCompile(`(?i)PARTSOURCE\.CA`), "PartSource"},
		{regexp.MustCompile(`(?i)PARTS?\s*RCE`), "PartSource"},

		{regexp.MustCompile(`(?i)FCA CANADA`), "FCA Canada / Mopar"},
		{regexp.MustCompile(`(?i)MOPAR CANADA`), "Mopar Canada"},
		{regexp.MustCompile(`(?i)STELLANTIS`), "Stellantis / Mopar"},

		{regexp.MustCompile(`(?i)KAL[- ]?TIRE`), "Kal Tire"},
		{regexp.MustCompile(`(?i)OK TIRE`), "OK Tire"},

		// Langley Chrysler, which OCR sometimes renders as BESTCHRYS.
		{regexp.MustCompile(`(?i)LANGLEY\s+CHRYSLER`), "Langley Chrysler"},
		{regexp.MustCompile(`(?i)BESTCHRYS`), "Langley Chrysler"},
	}
}

func defaultBrandAliases() []BrandAlias {
	return []BrandAlias{
		{"LORDCO", "Lordco Auto Parts"},
		{"PARTSOURCE", "PartSource"},
		{"STELLANTIS", "Stellantis / Mopar"},
		{"CHRYSLER", "Langley Chrysler"},
	}
}

var reWordToken = regexp.MustCompile(`[A-Za-z]{4,}`)

// SupplierName resolves the supplier display name for a page. The known
// pattern table runs first. The remaining passes look only at the header
// region above the ship-to / bill-to block, so a billing address naming
// the dealership can never masquerade as the supplier: a header that
// carries the dealership's own name goes straight to the header scan, an
// unknown header first gets the fuzzy brand pass (edit-distance-one OCR
// recovery), then the header scan.
func (e *Extractor) SupplierName(text string) *string {
	for _, rule := range e.cfg.SupplierRules {
		if rule.Pattern.MatchString(text) {
			name := rule.Name
			return &name
		}
	}

	header := e.headerRegion(text)

	if !e.selfInHeader(header) {
		if name := e.fuzzyBrand(header); name != "" {
			return &name
		}
	}

	if name := e.scanHeaderName(header); name != "" {
		return &name
	}
	return nil
}

// headerRegion returns the non-empty lines above the first SHIP /
// BILL TO / CUSTOMER marker, capped at HeaderScanLines.
func (e *Extractor) headerRegion(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > e.cfg.HeaderScanLines {
		lines = lines[:e.cfg.HeaderScanLines]
	}

	var header []string
	for _, line := range lines {
		up := strings.ToUpper(line)
		if strings.Contains(up, "SHIP") || strings.Contains(up, "BILL TO") ||
			strings.Contains(up, "BILL  TO") || strings.Contains(up, "CUSTOMER") {
			break
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			header = append(header, trimmed)
		}
	}
	return header
}

// selfInHeader reports whether the header region names the dealership
// itself. Such pages must keep their literal header name so they classify
// as self, not as a brand the fuzzy pass happens to resemble.
func (e *Extractor) selfInHeader(header []string) bool {
	for _, line := range header {
		up := strings.ToUpper(line)
		for _, marker := range e.cfg.SelfMarkers {
			if strings.Contains(up, marker) {
				return true
			}
		}
	}
	return false
}

// fuzzyBrand matches header-region tokens against brand aliases within
// Levenshtein distance 1. Only tokens of 5+ characters participate, so
// short words cannot drift into a brand by a single edit.
func (e *Extractor) fuzzyBrand(header []string) string {
	for _, line := range header {
		for _, tok := range reWordToken.FindAllString(line, -1) {
			up := strings.ToUpper(tok)
			if len(up) < 5 {
				continue
			}
			for _, alias := range e.cfg.BrandAliases {
				if fuzzy.LevenshteinDistance(up, alias.Token) <= 1 {
					return alias.Name
				}
			}
		}
	}
	return ""
}

// scanHeaderName guesses a supplier name from the header region.
// Candidates are scored by uppercase density with a bonus for corporate
// suffixes, and the best scorer above the threshold wins.
func (e *Extractor) scanHeaderName(header []string) string {
	best := ""
	bestScore := 0.0
	for _, ln := range header {
		if e.junk.Contains(ln) {
			continue
		}
		if len(ln) < 4 {
			continue
		}

		upCount := 0
		for _, c := range ln {
			if c >= 'A' && c <= 'Z' {
				upCount++
			}
		}
		score := float64(upCount) / float64(max(1, len(ln)))
		if e.suffix.Contains(ln) {
			score += 0.2
		}

		if score > e.cfg.MinNameScore && score > bestScore {
			bestScore = score
			best = ln
		}
	}
	return best
}

// ClassifySupplier buckets a supplier name into the coarse type used by
// downstream routing. A nil name stays unclassified.
func (e *Extractor) ClassifySupplier(name *string) invoice.SupplierType {
	if name == nil || *name == "" {
		return ""
	}
	u := strings.ToUpper(*name)
	for _, k := range []string{"FCA CANADA", "MOPAR CANADA", "STELLANTIS"} {
		if strings.Contains(u, k) {
			return invoice.SupplierChryslerCorp
		}
	}
	for _, k := range e.cfg.SelfMarkers {
		if strings.Contains(u, k) {
			return invoice.SupplierSelf
		}
	}
	if strings.Contains(u, "CHRYSLER") {
		return invoice.SupplierChryslerDealer
	}
	if strings.Contains(u, "TIRE") {
		return invoice.SupplierTire
	}
	return invoice.SupplierGeneral
}

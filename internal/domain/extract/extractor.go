// Package extract recovers invoice header fields from page text using
// ordered pattern cascades. Different suppliers (and different OCR passes
// over the same supplier) produce wildly different layouts for "the same"
// field, so each field is resolved by a short-circuiting list of rules:
// first match wins, and each rule is independently testable.
package extract

import (
	"time"

	"github.com/promiscunix/partsuite/pkg/textmatch"
)

// Config carries the literal pattern and keyword tables the extractor
// consults. Tests substitute synthetic tables; production uses Defaults.
type Config struct {
	// SupplierRules is the ordered table of known-supplier patterns,
	// including OCR-corrupted brand variants. First match wins.
	SupplierRules []SupplierRule

	// BrandAliases feed the fuzzy pass that runs when no SupplierRule
	// matched: a header token within Levenshtein distance 1 of an alias
	// resolves to that alias's display name.
	BrandAliases []BrandAlias

	// JunkTokens disqualify header lines from the supplier-name guess
	// (returns policy, tender lines, tax/total lines).
	JunkTokens []string

	// SuffixTokens earn a candidate line the corporate-suffix score bonus.
	SuffixTokens []string

	// SelfMarkers identify the dealership's own name for supplier
	// classification.
	SelfMarkers []string

	// HeaderScanLines bounds how deep the supplier-name guess looks.
	HeaderScanLines int

	// MinNameScore is the uppercase-density threshold a candidate line
	// must clear. Empirically tuned; do not adjust without a labeled
	// corpus.
	MinNameScore float64
}

// Extractor resolves header fields against its configured tables.
// It is stateless apart from configuration and safe for concurrent use.
type Extractor struct {
	cfg    Config
	junk   *textmatch.Set
	suffix *textmatch.Set
	now    func() time.Time
}

// New builds an Extractor. A zero Config gets Defaults applied.
func New(cfg Config) *Extractor {
	if cfg.HeaderScanLines == 0 {
		cfg = Defaults()
	}
	return &Extractor{
		cfg:    cfg,
		junk:   textmatch.NewSet(cfg.JunkTokens),
		suffix: textmatch.NewSet(cfg.SuffixTokens),
		now:    time.Now,
	}
}

// WithClock overrides the time source used for OCR year correction.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Defaults returns the production tables observed across the supplier
// corpus.
func Defaults() Config {
	return Config{
		SupplierRules: defaultSupplierRules(),
		BrandAliases:  defaultBrandAliases(),
		JunkTokens: []string{
			"MERCHANDISE", "RETURN POLICY", "RETURNS",
			"PAYMENT USING", "TENDER", "INCREMENT",
			"CHECKED AND RECEIVED",
			"TOTAL", "SUB-TOTAL", "GST", "PST", "HST",
		},
		SuffixTokens: []string{
			"INC", "LTD", "LIMITED", "CORP", "COMPANY", "TIRE", "CHRYSLER",
		},
		SelfMarkers: []string{
			"MAPLE RIDGE CHRYSLER", "MR MOTORS", "MRMOTORS",
		},
		HeaderScanLines: 40,
		MinNameScore:    0.5,
	}
}

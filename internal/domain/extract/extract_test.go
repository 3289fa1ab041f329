package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

func testExtractor() *Extractor {
	return New(Defaults()).WithClock(func() time.Time {
		return time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	})
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestInvoiceNumber(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"paymentref", "PAYMENTREF: 309043 NUMBER: 258489 DATE: 2025-11-07", "258489"},
		{"terms", "TERMS :309068  258537  2025-11-08", "258537"},
		{"inline invoice", "INVOICE309730  258793  2025-11-10", "258793"},
		{"invoice number label", "INVOICE NUMBER 397-190129", "397-190129"},
		{"invoice colon", "Invoice : 52813328", "52813328"},
		{"ocr oice hash", "cHiwoice # 8910181680", "8910181680"},
		{"branch on invoice line", "Lordco invoice 397 - 190218 due net 30", "397-190218"},
		{"bare branch fallback", "random header\n397-190129\nmore text", "397-190129"},
		{"ocr suffix junk", "INVOICE NUMBER 258284PARTSOURCE", "258284"},
		{"nothing", "no reference here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.InvoiceNumber(tt.text)
			assert.Equal(t, tt.want, strOrEmpty(got))
		})
	}
}

func TestInvoiceDate(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"label iso", "INVOICE DATE: 2025-11-06", "2025-11-06"},
		{"label slash", "INVOICE DATE: 11/06/2025", "2025-11-06"},
		{"label month name", "INVOICE DATE: November 6, 2025", "2025-11-06"},
		{"terms triplet", "TERMS :309068  258537  2025-11-08", "2025-11-08"},
		{"bare slash two-digit year", "printed 11/05/25 by register", "2025-11-05"},
		{"bare iso", "doc date 2025-10-30 ref 12", "2025-10-30"},
		{"ocr decade slip", "INVOICE DATE: 2035-11-06", "2025-11-06"},
		{"genuine future year kept", "INVOICE DATE: 2026-01-15", "2026-01-15"},
		{"none", "no dates at all", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.InvoiceDate(tt.text)
			assert.Equal(t, tt.want, strOrEmpty(got))
		})
	}
}

func TestNormalizeYear(t *testing.T) {
	e := testExtractor()

	// A slip only corrects when the result lands near the current year.
	d := time.Date(2045, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2045, e.normalizeYear(d).Year())

	d = time.Date(2034, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2024, e.normalizeYear(d).Year())
}

func TestSupplierName_PatternTable(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"NAPA PORT KELLS\n123 MAIN ST", "NAPA Port Kells"},
		{"NAPA AUTO PARTS", "NAPA"},
		{"LORDCO PARTS LTD", "Lordco Auto Parts"},
		{"LORDGO PARTS", "Lordco Auto Parts"},
		{"= AUTO PA RTS", "Lordco Auto Parts"},
		{"ACTION CAR AND TRUCK ACCESSORIES", "Action Car & Truck"},
		{"Welcome to PARTSOURCE store 86", "PartSource"},
		{"The Parts. The Pros. The Price", "PartSource"},
		{"FCA CANADA INC", "FCA Canada / Mopar"},
		{"MOPAR CANADA", "Mopar Canada"},
		{"STELLANTIS NV", "Stellantis / Mopar"},
		{"KAL TIRE", "Kal Tire"},
		{"KAL-TIRE", "Kal Tire"},
		{"OK TIRE STORES", "OK Tire"},
		{"LANGLEY CHRYSLER", "Langley Chrysler"},
		{"BESTCHRYS 19950", "Langley Chrysler"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := e.SupplierName(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestSupplierName_FuzzyBrand(t *testing.T) {
	e := testExtractor()

	// One OCR edit away from LORDCO, not in the pattern table.
	got := e.SupplierName("LORDC0 AUTO SUPPLY\nSHIP TO: SOMEONE")
	require.NotNil(t, got)
	assert.Equal(t, "Lordco Auto Parts", *got)

	t.Run("billing address cannot become the supplier", func(t *testing.T) {
		// The dealership's own name in the bill-to block sits below the
		// header region; the unknown supplier above it must win.
		text := "ACME AUTO WRECKING LTD\nparts counter slip\n" +
			"BILL TO: MAPLE RIDGE CHRYSLER\nSUB-TOTAL 10.00"
		got := e.SupplierName(text)
		require.NotNil(t, got)
		assert.Equal(t, "ACME AUTO WRECKING LTD", *got)
		assert.Equal(t, invoice.SupplierGeneral, e.ClassifySupplier(got))
	})

	t.Run("dealership header stays self", func(t *testing.T) {
		// An internal document headed by the dealership's own name keeps
		// that name literally instead of fuzzing into a dealer brand.
		text := "MAPLE RIDGE CHRYSLER LTD\ninternal transfer sheet\nSUB-TOTAL 10.00"
		got := e.SupplierName(text)
		require.NotNil(t, got)
		assert.Equal(t, "MAPLE RIDGE CHRYSLER LTD", *got)
		assert.Equal(t, invoice.SupplierSelf, e.ClassifySupplier(got))
	})
}

func TestSupplierName_HeaderScan(t *testing.T) {
	e := testExtractor()

	t.Run("uppercase company line wins", func(t *testing.T) {
		text := "some lowercase preamble\nWESTERN AUTO SUPPLY LTD\nbill to: dealer\nmore"
		got := e.SupplierName(text)
		require.NotNil(t, got)
		assert.Equal(t, "WESTERN AUTO SUPPLY LTD", *got)
	})

	t.Run("junk lines are skipped", func(t *testing.T) {
		text := "MERCHANDISE RETURN POLICY\nSUB-TOTAL 14.39\nlowercase only here\nBILL TO"
		assert.Nil(t, e.SupplierName(text))
	})

	t.Run("scan stops at ship-to marker", func(t *testing.T) {
		text := "lowercase header\nSHIP TO:\nBIG LOUD COMPANY INC"
		assert.Nil(t, e.SupplierName(text))
	})
}

func TestClassifySupplier(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name string
		want invoice.SupplierType
	}{
		{"FCA Canada / Mopar", invoice.SupplierChryslerCorp},
		{"Stellantis / Mopar", invoice.SupplierChryslerCorp},
		{"Maple Ridge Chrysler", invoice.SupplierSelf},
		{"Langley Chrysler", invoice.SupplierChryslerDealer},
		{"Kal Tire", invoice.SupplierTire},
		{"Lordco Auto Parts", invoice.SupplierGeneral},
	}
	for _, tt := range tests {
		name := tt.name
		assert.Equal(t, tt.want, e.ClassifySupplier(&name), name)
	}

	assert.Equal(t, invoice.SupplierType(""), e.ClassifySupplier(nil))
}

func TestTotals(t *testing.T) {
	e := testExtractor()

	t.Run("subtotal first wins, total last wins", func(t *testing.T) {
		text := "SUB-TOTAL 100.00\nSUB-TOTAL 999.99\nTOTAL 105.00\nTOTAL 107.00"
		got := e.Totals(text)
		require.NotNil(t, got.Subtotal)
		require.NotNil(t, got.Total)
		assert.Equal(t, "100", got.Subtotal.String())
		assert.Equal(t, "107", got.Total.String())
	})

	t.Run("parts sale fallback", func(t *testing.T) {
		text := "Parts Sale 24.21\nTotal Invoice 25.42"
		got := e.Totals(text)
		require.NotNil(t, got.Subtotal)
		assert.Equal(t, "24.21", got.Subtotal.String())
		require.NotNil(t, got.Total)
		assert.Equal(t, "25.42", got.Total.String())
	})

	t.Run("taxes keep last value", func(t *testing.T) {
		text := "GST $1.21\nPST $1.70\nGST $1.25"
		got := e.Totals(text)
		assert.Equal(t, "1.25", got.Taxes["GST"].String())
		assert.Equal(t, "1.7", got.Taxes["PST"].String())
	})

	t.Run("weight rows ignored", func(t *testing.T) {
		text := "TOTAL WGT 12.50\nTOTAL $ 14.70"
		got := e.Totals(text)
		require.NotNil(t, got.Total)
		assert.Equal(t, "14.7", got.Total.String())
	})

	t.Run("subtotal line does not set total", func(t *testing.T) {
		text := "SUB-TOTAL 14.39"
		got := e.Totals(text)
		require.NotNil(t, got.Subtotal)
		assert.Nil(t, got.Total)
	})
}

func TestPONumber(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"PO NUMBER: 74421", "74421"},
		{"PO # A-1234", "A-1234"},
		{"P.O. # 99887", "99887"},
		{"no purchase order", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, strOrEmpty(e.PONumber(tt.text)), tt.text)
	}
}

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promiscunix/partsuite/internal/domain/fca"
	"github.com/promiscunix/partsuite/internal/domain/glcoding"
	"github.com/promiscunix/partsuite/internal/domain/invoice"
	"github.com/promiscunix/partsuite/internal/domain/segment"
)

func testService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestProcess_BulkDocument(t *testing.T) {
	s := testService()

	pages := []invoice.PageText{
		{Index: 0, Text: "LORDCO PARTS LTD\nINVOICE NUMBER 397-190129\nINVOICE DATE: 2025-11-06\n" +
			"1 TR12345 TIE ROD END 45.67 45.67\nSUB-TOTAL 45.67\nGST $2.28\nTOTAL 47.95"},
		{Index: 1, Text: "cover sheet, no money"},
		{Index: 2, Text: "NAPA PORT KELLS\nInvoice : 52813328\nParts Sale 24.21\nTOTAL 25.42"},
	}

	batch, err := s.Process(context.Background(), pages)
	require.NoError(t, err)
	assert.Equal(t, segment.KindBulk, batch.Kind)
	require.Len(t, batch.Documents, 2)

	first := batch.Documents[0].Invoice
	require.NotNil(t, first.Header.InvoiceNumber)
	assert.Equal(t, "397-190129", *first.Header.InvoiceNumber)
	require.NotNil(t, first.Header.SupplierName)
	assert.Equal(t, "Lordco Auto Parts", *first.Header.SupplierName)
	assert.Equal(t, invoice.SupplierGeneral, first.Header.SupplierType)
	require.NotNil(t, first.Header.InvoiceDate)
	assert.Equal(t, "2025-11-06", *first.Header.InvoiceDate)
	require.NotNil(t, first.Subtotal)
	assert.True(t, first.Subtotal.Equal(dec("45.67")))
	assert.True(t, first.Taxes["GST"].Equal(dec("2.28")))
	require.NotNil(t, first.Total)
	assert.True(t, first.Total.Equal(dec("47.95")))
	assert.Equal(t, []int{0}, first.Pages)
	require.Len(t, first.LineItems, 1)

	coding := batch.Documents[0].Coding
	require.Len(t, coding, 4)
	assert.Equal(t, glcoding.AccountParts, coding[0].Account)
	assert.True(t, coding[0].Amount.Equal(dec("45.67")))
	assert.True(t, coding[3].Amount.Equal(dec("2.28")))

	second := batch.Documents[1].Invoice
	require.NotNil(t, second.Header.SupplierName)
	assert.Equal(t, "NAPA Port Kells", *second.Header.SupplierName)
	require.NotNil(t, second.Subtotal)
	assert.True(t, second.Subtotal.Equal(dec("24.21")))
}

func TestProcess_SubtotalFromLineSum(t *testing.T) {
	s := testService()

	// No subtotal or total label anywhere; the line totals must sum into
	// the subtotal.
	pages := []invoice.PageText{
		{Index: 0, Text: "WESTERN AUTO SUPPLY LTD\nINVOICE NUMBER 397-200001\n" +
			"1 AB12345 WIDGET 5.00 10.00\n1 CD23456 GADGET 10.20 10.25"},
	}

	batch, err := s.Process(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, batch.Documents, 1)

	inv := batch.Documents[0].Invoice
	require.Len(t, inv.LineItems, 2)
	require.NotNil(t, inv.Subtotal)
	assert.True(t, inv.Subtotal.Equal(dec("20.25")))
	assert.Nil(t, inv.Total)

	coding := batch.Documents[0].Coding
	require.Len(t, coding, 4)
	assert.True(t, coding[0].Amount.Equal(dec("20.25")))
}

func TestProcess_FCADocument(t *testing.T) {
	s := testService()

	pages := []invoice.PageText{
		{Index: 0, Text: "MOPAR CANADA INC    PARTS INVOICE\n" +
			"INVOICE NUMBER: 123456\nINVOICE DATE : NOVEMBER 15, 2025\n" +
			"1 BAAUA200AB BATTERY     10    193.05   1930.50 22  0       .00   1930.50 B\n" +
			"SUMMARY:\nTOTAL GROSS AMOUNT 1930.50\nGST/HST 96.53\nNET INVOICE AMOUNT 2027.03\n"},
	}

	batch, err := s.Process(context.Background(), pages)
	require.NoError(t, err)
	assert.Equal(t, segment.KindFCA, batch.Kind)
	require.Len(t, batch.Documents, 1)

	doc := batch.Documents[0]
	assert.Equal(t, invoice.SupplierChryslerCorp, doc.Invoice.Header.SupplierType)
	require.Len(t, doc.Coding, 4)
	assert.True(t, doc.Coding[0].Amount.Equal(dec("1930.50")))
	assert.True(t, doc.Coding[3].Amount.Equal(dec("96.53")))
}

func TestProcess_FCAMissingHeader(t *testing.T) {
	s := testService()

	pages := []invoice.PageText{
		{Index: 0, Text: "FCA CANADA remittance advice, no document numbers"},
	}
	_, err := s.Process(context.Background(), pages)
	require.ErrorIs(t, err, fca.ErrMissingHeader)
}

func TestProcess_CancelledContext(t *testing.T) {
	s := testService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Process(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

type recordingCopier struct {
	names  []string
	pages  [][]int
	failOn string
}

func (c *recordingCopier) CopyPages(_ context.Context, pageIndexes []int, name string) error {
	if c.failOn != "" && name == c.failOn {
		return errors.New("copy failed")
	}
	c.names = append(c.names, name)
	c.pages = append(c.pages, pageIndexes)
	return nil
}

func TestExport(t *testing.T) {
	s := testService()

	num := "397-190129"
	supplier := "Lordco Auto Parts"
	batch := &Batch{Documents: []Document{
		{Invoice: invoice.Invoice{
			Header: invoice.HeaderFields{InvoiceNumber: &num, SupplierName: &supplier},
			Pages:  []int{0, 2},
		}},
		{Invoice: invoice.Invoice{Pages: []int{3}}},
	}}

	copier := &recordingCopier{}
	require.NoError(t, s.Export(context.Background(), batch, copier))

	require.Len(t, copier.names, 2)
	assert.Equal(t, "Lordco_Auto_Parts_397-190129", copier.names[0])
	assert.Equal(t, []int{0, 2}, copier.pages[0])
	assert.Equal(t, "invoice_2", copier.names[1])
}

func TestExport_ContinuesPastFailures(t *testing.T) {
	s := testService()

	batch := &Batch{Documents: []Document{
		{Invoice: invoice.Invoice{Pages: []int{0}}},
		{Invoice: invoice.Invoice{Pages: []int{1}}},
	}}

	copier := &recordingCopier{failOn: "invoice_1"}
	require.NoError(t, s.Export(context.Background(), batch, copier))
	require.Len(t, copier.names, 1)
	assert.Equal(t, "invoice_2", copier.names[0])
}

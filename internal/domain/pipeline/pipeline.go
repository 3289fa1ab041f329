// Package pipeline orchestrates document understanding end to end: route
// sniffing, page segmentation, header and line-item extraction, FCA
// parsing, and GL coding. It owns no I/O; page text comes in, assembled
// invoice records come out.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/extract"
	"github.com/promiscunix/partsuite/internal/domain/fca"
	"github.com/promiscunix/partsuite/internal/domain/glcoding"
	"github.com/promiscunix/partsuite/internal/domain/invoice"
	"github.com/promiscunix/partsuite/internal/domain/lineitem"
	"github.com/promiscunix/partsuite/internal/domain/segment"
	"github.com/promiscunix/partsuite/pkg/money"
)

// Document is one assembled invoice plus its ledger coding.
type Document struct {
	Invoice invoice.Invoice
	Coding  []glcoding.Line
}

// Batch is the outcome of processing one source document.
type Batch struct {
	Kind      segment.Kind
	Documents []Document
}

// PageCopier is the delegated page-copy capability: given original page
// indices, produce a new document holding exactly those pages in order.
// The pipeline decides the index sets and names, never the bytes.
type PageCopier interface {
	CopyPages(ctx context.Context, pageIndexes []int, name string) error
}

// Service runs the pipeline. Safe for concurrent use; each Process call is
// independent.
type Service struct {
	logger *slog.Logger
	ex     *extract.Extractor
	items  *lineitem.Extractor
	seg    *segment.Segmenter
}

// NewService builds a Service with production extraction tables.
func NewService(logger *slog.Logger) *Service {
	ex := extract.New(extract.Defaults())
	return &Service{
		logger: logger,
		ex:     ex,
		items:  lineitem.New(),
		seg:    segment.New(ex),
	}
}

// Process routes a document and assembles its invoices. FCA statements go
// through the fixed-format parser; everything else through the bulk
// splitter. Page order is load-bearing and preserved throughout.
func (s *Service) Process(ctx context.Context, pages []invoice.PageText) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := segment.Sniff(pages)
	s.logger.Info("processing document", "kind", kind, "pages", len(pages))

	batch := &Batch{Kind: kind}
	switch kind {
	case segment.KindFCA:
		docs, err := fca.Parse(pages)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			inv := d.ToInvoice()
			batch.Documents = append(batch.Documents, Document{
				Invoice: inv,
				Coding: glcoding.Code(glcoding.Amounts{
					Subtotal:              d.Header.Subtotal,
					Freight:               d.Header.Freight,
					EnvFees:               d.Header.EnvFees,
					TaxAmount:             d.Header.TaxAmount,
					DiscountsEarned:       d.Header.DiscountsEarned,
					DealerGeneratedReturn: d.Header.DealerGeneratedReturn,
					DepositValues:         d.Header.DepositValues,
				}, inv.Header.DocumentType),
			})
		}
	default:
		for _, g := range s.seg.Split(pages) {
			inv := s.assemble(g)
			batch.Documents = append(batch.Documents, Document{
				Invoice: inv,
				Coding:  glcoding.Code(genericAmounts(&inv), inv.Header.DocumentType),
			})
		}
	}

	s.logger.Info("document processed", "kind", kind, "invoices", len(batch.Documents))
	return batch, nil
}

// assemble builds one invoice record from a page group: header cascades,
// totals, line items, then the supplier-specific repair passes.
func (s *Service) assemble(g segment.Group) invoice.Invoice {
	texts := make([]string, len(g.Pages))
	pageIdx := make([]int, len(g.Pages))
	for i, p := range g.Pages {
		texts[i] = p.Text
		pageIdx[i] = p.Index
	}
	text := strings.Join(texts, "\n")

	supplier := s.ex.SupplierName(text)
	totals := s.ex.Totals(text)

	items := s.items.Extract(text)
	items = s.items.CleanSummaryRows(items, totals.Subtotal, totals.Total)

	if supplier != nil {
		up := strings.ToUpper(*supplier)
		if strings.Contains(up, "ACTION CAR & TRUCK") {
			items = s.items.AugmentActionDescriptions(text, items)
		}
		if strings.Contains(up, "LORDCO") && len(items) == 0 &&
			(totals.Subtotal != nil || totals.Total != nil) {
			items = s.items.LordcoFallback(text)
		}
	}

	subtotal := totals.Subtotal
	if subtotal == nil && len(items) > 0 {
		sum := decimal.Zero
		for _, li := range items {
			if li.LineTotal != nil {
				sum = sum.Add(*li.LineTotal)
			}
		}
		if sum.IsPositive() {
			subtotal = money.Ptr(money.Round2(sum))
		}
	}

	inv := invoice.Invoice{
		Header: invoice.HeaderFields{
			InvoiceNumber: s.ex.InvoiceNumber(text),
			InvoiceDate:   s.ex.InvoiceDate(text),
			PONumber:      s.ex.PONumber(text),
			SupplierName:  supplier,
			DocumentType:  invoice.DocInvoice,
		},
		Subtotal:  money.Round2Ptr(subtotal),
		Taxes:     totals.Taxes,
		Total:     money.Round2Ptr(totals.Total),
		Pages:     pageIdx,
		LineItems: items,
		RawText:   text,
	}
	inv.Header.SupplierType = s.ex.ClassifySupplier(supplier)

	if inv.Header.InvoiceNumber == nil && g.Key != nil {
		inv.Header.InvoiceNumber = g.Key
	}
	return inv
}

// genericAmounts maps a bulk-path invoice onto coding buckets: subtotal and
// tax only, since generic extraction has no freight or discount detail.
func genericAmounts(inv *invoice.Invoice) glcoding.Amounts {
	a := glcoding.Amounts{}
	if inv.Subtotal != nil {
		a.Subtotal = *inv.Subtotal
	}
	for _, v := range inv.Taxes {
		a.TaxAmount = a.TaxAmount.Add(v)
	}
	return a
}

// Export hands each invoice's page set to the page-copy capability under
// its suggested output name. Failures log and continue; one bad invoice
// never aborts the batch.
func (s *Service) Export(ctx context.Context, batch *Batch, copier PageCopier) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, doc := range batch.Documents {
		name := doc.Invoice.SuggestedName(i + 1)
		if err := copier.CopyPages(ctx, doc.Invoice.Pages, name); err != nil {
			s.logger.Error("page copy failed", "name", name, "error", err)
			continue
		}
		s.logger.Info("invoice exported", "name", name, "pages", len(doc.Invoice.Pages))
	}
	return nil
}

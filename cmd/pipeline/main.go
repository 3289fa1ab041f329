// Command pipeline extracts invoices from a bulk or FCA PDF, prints a
// summary (or JSON), and optionally reconciles against a receiving-ledger
// export.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
	"github.com/promiscunix/partsuite/internal/domain/pipeline"
	"github.com/promiscunix/partsuite/internal/domain/receiving"
	"github.com/promiscunix/partsuite/internal/domain/reconcile"
	"github.com/promiscunix/partsuite/pkg/config"
	"github.com/promiscunix/partsuite/pkg/money"
	"github.com/promiscunix/partsuite/pkg/ocr"
	"github.com/promiscunix/partsuite/pkg/pdftext"
	"github.com/promiscunix/partsuite/pkg/storage"
)

func main() {
	var (
		doOCR         = flag.Bool("ocr", false, "run OCR before extraction (needs ocrmypdf)")
		asJSON        = flag.Bool("json", false, "print extracted invoices as JSON")
		receivingPath = flag.String("receiving", "", "receiving-ledger export (CSV or XLSX) to reconcile against")
		supplier      = flag.String("supplier", "", "supplier substring filter for the manual reconciliation")
		doExport      = flag.Bool("export", false, "write per-invoice artifacts to the output directory")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pipeline [flags] <document.pdf>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), logger, cfg, flag.Arg(0), *doOCR, *asJSON, *doExport, *receivingPath, *supplier); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, path string, doOCR, asJSON, doExport bool, receivingPath, supplierFilter string) error {
	if doOCR {
		runner := ocr.New(cfg.OCR.Binary, cfg.OCR.Language, cfg.OCR.Deskew)
		ocrPath, err := runner.Run(ctx, path)
		if err != nil {
			return err
		}
		logger.Info("ocr complete", "input", path, "output", ocrPath)
		path = ocrPath
	}

	texts, err := pdftext.ExtractPages(path)
	if err != nil {
		return err
	}
	pages := make([]invoice.PageText, len(texts))
	for i, t := range texts {
		pages[i] = invoice.PageText{Index: i, Text: t}
	}

	svc := pipeline.NewService(logger)
	batch, err := svc.Process(ctx, pages)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch.Documents); err != nil {
			return err
		}
	} else {
		printSummary(batch)
	}

	if doExport {
		if err := export(ctx, logger, cfg, svc, batch, pages); err != nil {
			return err
		}
	}

	if receivingPath != "" {
		return reconcileAgainst(logger, cfg, batch, receivingPath, supplierFilter)
	}
	return nil
}

func export(ctx context.Context, logger *slog.Logger, cfg *config.Config, svc *pipeline.Service, batch *pipeline.Batch, pages []invoice.PageText) error {
	store, err := storage.NewLocalStore(cfg.Output.Dir)
	if err != nil {
		return err
	}

	if err := svc.Export(ctx, batch, newStoreCopier(store, pages)); err != nil {
		return err
	}

	if cfg.Output.WriteJSON {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch.Documents); err != nil {
			return err
		}
		if _, err := store.Put(ctx, "invoices.json", "application/json", &buf); err != nil {
			return err
		}
	}

	logger.Info("artifacts written", "dir", store.RunDir(), "documents", len(batch.Documents))
	return nil
}

func printSummary(batch *pipeline.Batch) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSUPPLIER\tINVOICE\tDATE\tSUBTOTAL\tTOTAL\tPAGES\tITEMS")
	for i, doc := range batch.Documents {
		inv := doc.Invoice
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			i+1,
			orDash(inv.Header.SupplierName),
			orDash(inv.Header.InvoiceNumber),
			orDash(inv.Header.InvoiceDate),
			displayOrDash(inv.Subtotal),
			displayOrDash(inv.Total),
			len(inv.Pages),
			len(inv.LineItems),
		)
	}
	w.Flush()
}

func reconcileAgainst(logger *slog.Logger, cfg *config.Config, batch *pipeline.Batch, path, supplierFilter string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var res *receiving.Result
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		res, err = receiving.ImportXLSX(f, path)
	} else {
		res, err = receiving.ImportCSV(f, path)
	}
	if err != nil {
		return err
	}
	logger.Info("receiving ledger imported",
		"batch", res.BatchID, "rows", res.UsedRows, "of", res.TotalRows)

	invoices := make([]invoice.Invoice, len(batch.Documents))
	for i, doc := range batch.Documents {
		invoices[i] = doc.Invoice
	}

	limit := cfg.Report.RowLimit
	if supplierFilter == "" {
		supplierFilter = cfg.Report.SupplierFilter
	}

	fca := reconcile.FCAReport(invoices, res.Rows).Truncate(limit)
	printReport("FCA / Mopar vs R shipments", fca)

	manual := reconcile.ManualReport(invoices, res.Rows, supplierFilter).Truncate(limit)
	printReport("External suppliers vs O manual receipts", manual)
	return nil
}

func printReport(title string, r reconcile.Report) {
	fmt.Println()
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", len(title)))

	printSection("Billed more than received (possible outstanding)", r.BilledMore)
	printSection("Received more than billed (possible over-receipt / mismatch)", r.ReceivedMore)
}

func printSection(title string, rows []reconcile.Row) {
	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "PART\tBILLED\tRECEIVED\tDIFF(B-R)")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.PartKey,
			row.Billed.StringFixed(2),
			row.Received.StringFixed(2),
			row.Diff.StringFixed(2),
		)
	}
	w.Flush()
	fmt.Println()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func displayOrDash(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return money.Display(*d)
}

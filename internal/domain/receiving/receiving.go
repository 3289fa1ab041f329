// Package receiving imports DMS parts-transaction exports (CSV and XLSX)
// into receiving-ledger rows. Only rows with source code R (supplier
// shipment) or O (manual entry) and a non-zero quantity survive the import;
// everything else in the export is sales and adjustment noise.
package receiving

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source codes kept by the import.
const (
	CodeShipment = "R" // FCA shipment, scanned in
	CodeManual   = "O" // manually entered external-supplier receipt
)

// Row is one receiving-ledger entry.
type Row struct {
	BatchID       uuid.UUID
	SupplierName  string
	InvoiceNumber string
	PartNumber    string
	QtyReceived   decimal.Decimal
	PostingDate   string // ISO yyyy-mm-dd where parsable, else raw
	TransCode     string
}

// Result is one completed import batch.
type Result struct {
	BatchID   uuid.UUID
	Source    string
	Rows      []Row
	TotalRows int
	UsedRows  int
}

// csvRow mirrors the export's literal header names, trailing dots included.
type csvRow struct {
	PartNumber    string `csv:"PARTNUMBER"`
	TransCode     string `csv:"TRANSCODE."`
	TransQty      string `csv:"TRANSQTY.."`
	InvoiceNumber string `csv:"INVOICENUMBER.."`
	PostingDate   string `csv:"POSTINGDATE..."`
}

// SupplierForCode maps a source code to its logical supplier bucket.
func SupplierForCode(code string) string {
	switch strings.ToUpper(code) {
	case CodeShipment:
		return "Mopar Canada / FCA"
	case CodeManual:
		return "Manual / External Supplier"
	}
	return "Unknown"
}

// NormalizePostingDate converts "11/10/2025 12:00:00 AM" or "11/10/2025"
// to ISO. Unparsable non-empty values pass through unchanged.
func NormalizePostingDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{"1/2/2006 3:04:05 PM", "1/2/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}

func buildRow(batchID uuid.UUID, raw csvRow) (Row, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw.TransCode))
	if code != CodeShipment && code != CodeManual {
		return Row{}, false
	}
	part := strings.TrimSpace(raw.PartNumber)
	if part == "" {
		return Row{}, false
	}
	qtyStr := strings.TrimSpace(raw.TransQty)
	if qtyStr == "" {
		return Row{}, false
	}
	qty, err := decimal.NewFromString(qtyStr)
	if err != nil || qty.IsZero() {
		return Row{}, false
	}

	return Row{
		BatchID:       batchID,
		SupplierName:  SupplierForCode(code),
		InvoiceNumber: strings.TrimSpace(raw.InvoiceNumber),
		PartNumber:    part,
		QtyReceived:   qty,
		PostingDate:   NormalizePostingDate(raw.PostingDate),
		TransCode:     code,
	}, true
}

// stripBOM removes a UTF-8 byte order mark, which these exports carry.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		br.Discard(3)
	}
	return br
}

// ImportCSV parses a transaction CSV export into a receiving batch.
func ImportCSV(r io.Reader, source string) (*Result, error) {
	var raws []csvRow
	if err := gocsv.Unmarshal(stripBOM(r), &raws); err != nil {
		return nil, fmt.Errorf("receiving: parse csv: %w", err)
	}
	return buildResult(source, raws), nil
}

func buildResult(source string, raws []csvRow) *Result {
	res := &Result{
		BatchID:   uuid.New(),
		Source:    source,
		TotalRows: len(raws),
	}
	for _, raw := range raws {
		row, ok := buildRow(res.BatchID, raw)
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, row)
		res.UsedRows++
	}
	return res
}

package receiving

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportXLSX parses an XLSX transaction export. The first sheet is read;
// its first row must carry the same headers as the CSV export.
func ImportXLSX(r io.Reader, source string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("receiving: open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("receiving: xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("receiving: read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return buildResult(source, nil), nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	raws := make([]csvRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raws = append(raws, csvRow{
			PartNumber:    cell(row, "PARTNUMBER"),
			TransCode:     cell(row, "TRANSCODE."),
			TransQty:      cell(row, "TRANSQTY.."),
			InvoiceNumber: cell(row, "INVOICENUMBER.."),
			PostingDate:   cell(row, "POSTINGDATE..."),
		})
	}
	return buildResult(source, raws), nil
}

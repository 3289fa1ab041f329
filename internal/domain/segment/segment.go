// Package segment splits a bulk multi-invoice document into per-invoice
// page groups, and sniffs which parsing route a document should take.
package segment

import (
	"sort"
	"strings"

	"github.com/promiscunix/partsuite/internal/domain/extract"
	"github.com/promiscunix/partsuite/internal/domain/invoice"
)

// Kind is the parsing route for a document.
type Kind string

const (
	// KindFCA marks single-supplier FCA / Mopar statement documents.
	KindFCA Kind = "fca"
	// KindBulk marks scanned batches holding many supplier invoices.
	KindBulk Kind = "bulk"
	// KindUnknown marks documents with no pages to judge by.
	KindUnknown Kind = "unknown"
)

// Sniff decides the parsing route from the first page. FCA statements name
// their issuer prominently on page one; everything else goes through the
// bulk splitter.
func Sniff(pages []invoice.PageText) Kind {
	if len(pages) == 0 {
		return KindUnknown
	}
	first := strings.ToUpper(pages[0].Text)
	if strings.Contains(first, "FCA CANADA") || strings.Contains(first, "MOPAR CANADA") {
		return KindFCA
	}
	return KindBulk
}

// Group is one prospective invoice: the pages that belong together and the
// invoice number that bound them, when one was readable.
type Group struct {
	Key   *string
	Pages []invoice.PageText
}

// FirstPage returns the lowest original page index in the group.
func (g *Group) FirstPage() int {
	if len(g.Pages) == 0 {
		return 0
	}
	first := g.Pages[0].Index
	for _, p := range g.Pages[1:] {
		if p.Index < first {
			first = p.Index
		}
	}
	return first
}

// Segmenter groups pages into invoices using the header extractor.
type Segmenter struct {
	ex *extract.Extractor
}

// New builds a Segmenter around the given extractor.
func New(ex *extract.Extractor) *Segmenter {
	return &Segmenter{ex: ex}
}

// Split groups pages by extracted invoice number. Pages with no readable
// number become single-page groups when they carry money (a subtotal or
// total); pages with neither number nor money are cover sheets and junk,
// and are dropped. Groups come back ordered by their first page index.
func (s *Segmenter) Split(pages []invoice.PageText) []Group {
	type bucket struct {
		key   string
		pages []invoice.PageText
	}

	var order []*bucket
	byKey := make(map[string]*bucket)
	used := make(map[int]bool)

	for _, page := range pages {
		num := s.ex.InvoiceNumber(page.Text)
		if num == nil {
			continue
		}
		b, ok := byKey[*num]
		if !ok {
			b = &bucket{key: *num}
			byKey[*num] = b
			order = append(order, b)
		}
		b.pages = append(b.pages, page)
		used[page.Index] = true
	}

	var groups []Group
	for _, b := range order {
		key := b.key
		groups = append(groups, Group{Key: &key, Pages: b.pages})
	}

	for _, page := range pages {
		if used[page.Index] {
			continue
		}
		totals := s.ex.Totals(page.Text)
		if totals.Subtotal == nil && totals.Total == nil {
			continue
		}
		groups = append(groups, Group{Pages: []invoice.PageText{page}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].FirstPage() < groups[j].FirstPage()
	})
	return groups
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/promiscunix/partsuite/internal/domain/invoice"
	"github.com/promiscunix/partsuite/internal/domain/pipeline"
	"github.com/promiscunix/partsuite/pkg/storage"
)

// storeCopier adapts storage.Store to pipeline's PageCopier interface.
// Each extracted document becomes one text artifact holding the plain
// text of its pages.
type storeCopier struct {
	store storage.Store
	pages []invoice.PageText
}

// newStoreCopier creates a new adapter
func newStoreCopier(store storage.Store, pages []invoice.PageText) pipeline.PageCopier {
	byIndex := make([]invoice.PageText, len(pages))
	copy(byIndex, pages)
	return &storeCopier{store: store, pages: byIndex}
}

// CopyPages implements pipeline.PageCopier
func (c *storeCopier) CopyPages(ctx context.Context, pageIndexes []int, name string) error {
	var b strings.Builder
	for _, idx := range pageIndexes {
		if idx < 0 || idx >= len(c.pages) {
			return fmt.Errorf("page index %d out of range", idx)
		}
		b.WriteString(c.pages[idx].Text)
		b.WriteString("\n")
	}

	_, err := c.store.Put(ctx, name+".txt", "text/plain", strings.NewReader(b.String()))
	return err
}

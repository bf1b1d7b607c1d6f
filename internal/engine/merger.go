package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merger concatenates PDFs page by page using pdfcpu.
type Merger struct{}

func NewMerger() *Merger {
	return &Merger{}
}

// Merge writes the pages of every input, in input order, into one PDF. A
// single unreadable input fails the whole merge.
func (m *Merger) Merge(files [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, 0, len(files))
	for _, f := range files {
		readers = append(readers, bytes.NewReader(f))
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, newPDFConfig()); err != nil {
		return nil, fmt.Errorf("failed to merge PDFs: %w", err)
	}
	return buf.Bytes(), nil
}

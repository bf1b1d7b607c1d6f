package engine

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}

func renderPDF(t *testing.T, text string) []byte {
	t.Helper()
	data, err := NewTextRenderer().Render(text)
	require.NoError(t, err)
	return data
}

func readContext(t *testing.T, data []byte) *model.Context {
	t.Helper()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newPDFConfig())
	require.NoError(t, err)
	return ctx
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	return readContext(t, data).PageCount
}

func pageContent(t *testing.T, ctx *model.Context, pageNr int) string {
	t.Helper()
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func highlightCount(t *testing.T, ctx *model.Context, pageNr int) int {
	t.Helper()
	pageDict, _, _, err := ctx.PageDict(pageNr, false)
	require.NoError(t, err)

	obj, found := pageDict.Find("Annots")
	if !found {
		return 0
	}
	annots, err := ctx.DereferenceArray(obj)
	require.NoError(t, err)

	n := 0
	for _, a := range annots {
		d, err := ctx.DereferenceDict(a)
		require.NoError(t, err)
		if subtype, ok := d["Subtype"].(types.Name); ok && subtype == "Highlight" {
			n++
		}
	}
	return n
}

// lines returns n numbered lines prefixed with label, enough to span pages.
func lines(label string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(label)
		b.WriteString(" line\n")
	}
	return b.String()
}

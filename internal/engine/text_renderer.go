package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points on US Letter.
const (
	textLeftMargin = 40.0
	textTopOffset  = 42.0
	textFont       = "Helvetica"
	textFontSize   = 12.0
	textLeading    = 14.4
)

// TextRenderer lays plain text out on Letter pages with a single font,
// keeping the caller's line breaks and wrapping lines wider than the page.
type TextRenderer struct{}

// NewTextRenderer creates a new text renderer
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render produces a PDF containing text. A new page starts whenever the
// bottom margin is reached.
func (r *TextRenderer) Render(text string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(textLeftMargin, textTopOffset, textLeftMargin)
	pdf.SetAutoPageBreak(true, textTopOffset)
	pdf.SetFont(textFont, "", textFontSize)
	pdf.AddPage()

	// Core fonts are cp1252; characters outside it are dropped by the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, textLeading, tr(normalizeNewlines(text)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

package engine

import (
	"fmt"
	"strings"
	"unicode"

	"pdf-toolkit/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// WordConverter turns PDFs into DOCX documents from the PDF's text layer.
type WordConverter struct {
	logger domain.Logger
}

// NewWordConverter creates a new PDF to Word converter
func NewWordConverter(logger domain.Logger) *WordConverter {
	return &WordConverter{
		logger: logger,
	}
}

// Convert opens the PDF from memory, keeps one DOCX page per PDF page and
// marks heading-like paragraphs. Nothing is written to disk.
func (c *WordConverter) Convert(pdfBytes []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	meta := doc.Metadata()
	out := &docxDocument{
		Title:  meta["title"],
		Author: meta["author"],
	}

	numPages := doc.NumPage()
	for pageNum := 0; pageNum < numPages; pageNum++ {
		c.logger.Debug("PDF to Word page", "page", pageNum+1, "total", numPages)

		text, err := doc.Text(pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum+1, err)
		}

		var page []docxParagraph
		for _, para := range splitIntoParagraphs(text) {
			page = append(page, docxParagraph{
				Text:    sanitizeText(para),
				Heading: isHeading(para),
			})
		}
		out.Pages = append(out.Pages, page)
	}

	return out.Bytes()
}

// splitIntoParagraphs splits text on blank lines, keeping single line breaks
// inside a paragraph.
func splitIntoParagraphs(text string) []string {
	text = normalizeNewlines(text)

	var result []string
	for _, para := range strings.Split(text, "\n\n") {
		lines := strings.Split(para, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if line = strings.TrimRightFunc(line, unicode.IsSpace); strings.TrimSpace(line) != "" {
				kept = append(kept, line)
			}
		}
		if len(kept) > 0 {
			result = append(result, strings.Join(kept, "\n"))
		}
	}
	return result
}

// isHeading determines if a paragraph is likely a heading: a single short
// line without closing punctuation that is either upper-case or very short.
func isHeading(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, "\n") || len(text) >= 80 {
		return false
	}
	if strings.ContainsAny(text[len(text)-1:], ".,;:") {
		return false
	}
	if text == strings.ToUpper(text) && strings.IndexFunc(text, unicode.IsLetter) >= 0 && len(text) > 3 {
		return true
	}
	first := []rune(text)[0]
	return len(text) < 50 && unicode.IsUpper(first) && !strings.Contains(text, ". ")
}

// sanitizeText drops runes that are not allowed in XML 1.0 documents.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			result.WriteRune(r)
		case r >= 0x20 && r <= 0xD7FF:
			result.WriteRune(r)
		case r >= 0xE000 && r <= 0xFFFD:
			result.WriteRune(r)
		case r >= 0x10000 && r <= 0x10FFFF:
			result.WriteRune(r)
		}
	}
	return result.String()
}

package domain

import "context"

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Artifact is a conversion result ready to be streamed to the client.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// TextRenderer lays plain text out on PDF pages.
type TextRenderer interface {
	Render(text string) ([]byte, error)
}

// PDFMerger concatenates PDFs in input order.
type PDFMerger interface {
	Merge(files [][]byte) ([]byte, error)
}

// WordConverter turns a PDF into a DOCX document.
type WordConverter interface {
	Convert(pdf []byte) ([]byte, error)
}

// PDFHighlighter annotates every occurrence of needle in pdf.
type PDFHighlighter interface {
	Highlight(pdf []byte, needle string) ([]byte, error)
}

// WordReader extracts the paragraph text of a DOCX document.
type WordReader interface {
	ExtractText(docx []byte) (string, error)
}

// ConversionService is the request pipeline shared by every conversion.
type ConversionService interface {
	TextToPDF(ctx context.Context, user *User, text string) (*Artifact, error)
	MergePDFs(ctx context.Context, user *User, files [][]byte) (*Artifact, error)
	PDFToWord(ctx context.Context, user *User, pdf []byte) (*Artifact, error)
	HighlightPDF(ctx context.Context, user *User, pdf []byte, text string) (*Artifact, error)
	WordToPDF(ctx context.Context, user *User, docx []byte) (*Artifact, error)
}

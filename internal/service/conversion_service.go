package service

import (
	"context"

	"pdf-toolkit/internal/domain"
	apperrors "pdf-toolkit/pkg/errors"
)

const (
	convertedPDFName     = "converted.pdf"
	mergedPDFName        = "merged.pdf"
	convertedDocxName    = "converted.docx"
	highlightedPDFName   = "highlighted.pdf"
	wordConvertedPDFName = "word_converted.pdf"
)

// Engines groups the conversion backends used by the pipeline.
type Engines struct {
	Text        domain.TextRenderer
	Merger      domain.PDFMerger
	Word        domain.WordConverter
	Highlighter domain.PDFHighlighter
	WordReader  domain.WordReader
}

// ConversionService runs validate, convert, record for every operation. An
// artifact is only returned once its history entry is stored.
type ConversionService struct {
	engines Engines
	history domain.HistoryRepository
	logger  domain.Logger
}

func NewConversionService(
	engines Engines,
	history domain.HistoryRepository,
	logger domain.Logger,
) *ConversionService {
	return &ConversionService{
		engines: engines,
		history: history,
		logger:  logger,
	}
}

func (s *ConversionService) TextToPDF(ctx context.Context, user *domain.User, text string) (*domain.Artifact, error) {
	if user == nil {
		return nil, errNoUser()
	}
	if text == "" {
		return nil, apperrors.NewValidationError("Text is required")
	}

	return s.run(ctx, user, domain.ActionConvert, convertedPDFName, domain.ContentTypePDF, func() ([]byte, error) {
		return s.engines.Text.Render(text)
	})
}

func (s *ConversionService) MergePDFs(ctx context.Context, user *domain.User, files [][]byte) (*domain.Artifact, error) {
	if user == nil {
		return nil, errNoUser()
	}
	if len(files) < 2 {
		return nil, apperrors.NewValidationError("At least 2 PDFs required")
	}
	for _, f := range files {
		if len(f) == 0 {
			return nil, apperrors.NewValidationError("Uploaded PDF is empty")
		}
	}

	return s.run(ctx, user, domain.ActionMerge, mergedPDFName, domain.ContentTypePDF, func() ([]byte, error) {
		return s.engines.Merger.Merge(files)
	})
}

func (s *ConversionService) PDFToWord(ctx context.Context, user *domain.User, pdf []byte) (*domain.Artifact, error) {
	if user == nil {
		return nil, errNoUser()
	}
	if len(pdf) == 0 {
		return nil, apperrors.NewValidationError("PDF file is required")
	}

	return s.run(ctx, user, domain.ActionPDFToWord, convertedDocxName, domain.ContentTypeDOCX, func() ([]byte, error) {
		return s.engines.Word.Convert(pdf)
	})
}

func (s *ConversionService) HighlightPDF(ctx context.Context, user *domain.User, pdf []byte, text string) (*domain.Artifact, error) {
	if user == nil {
		return nil, errNoUser()
	}
	if len(pdf) == 0 {
		return nil, apperrors.NewValidationError("PDF file is required")
	}
	if text == "" {
		return nil, apperrors.NewValidationError("Text to highlight is required")
	}

	return s.run(ctx, user, domain.ActionEdit, highlightedPDFName, domain.ContentTypePDF, func() ([]byte, error) {
		return s.engines.Highlighter.Highlight(pdf, text)
	})
}

// WordToPDF lays the paragraph text of a DOCX out with the text renderer.
func (s *ConversionService) WordToPDF(ctx context.Context, user *domain.User, docx []byte) (*domain.Artifact, error) {
	if user == nil {
		return nil, errNoUser()
	}
	if len(docx) == 0 {
		return nil, apperrors.NewValidationError("Word file is required")
	}

	return s.run(ctx, user, domain.ActionWordToPDF, wordConvertedPDFName, domain.ContentTypePDF, func() ([]byte, error) {
		text, err := s.engines.WordReader.ExtractText(docx)
		if err != nil {
			return nil, err
		}
		return s.engines.Text.Render(text)
	})
}

// run invokes the engine and records the history entry. Nothing is recorded
// when the engine fails, and the artifact is dropped when recording fails.
func (s *ConversionService) run(
	ctx context.Context,
	user *domain.User,
	action domain.Action,
	fileName string,
	contentType string,
	convert func() ([]byte, error),
) (*domain.Artifact, error) {
	data, err := convert()
	if err != nil {
		s.logger.Error("Conversion failed", err, "user_id", user.ID, "action", action)
		return nil, apperrors.NewEngineError(err)
	}

	entry := &domain.HistoryEntry{
		UserID:   user.ID,
		FileName: fileName,
		Action:   action,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to record history", err, "user_id", user.ID, "action", action)
		return nil, apperrors.NewStorageError("Failed to record conversion history", err)
	}

	s.logger.Info("Conversion completed",
		"user_id", user.ID,
		"action", action,
		"file_name", fileName,
		"size", len(data),
	)
	return &domain.Artifact{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func errNoUser() error {
	return apperrors.NewUnauthorizedError("Authentication credentials were not provided")
}

var _ domain.ConversionService = (*ConversionService)(nil)

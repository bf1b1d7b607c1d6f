package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"pdf-toolkit/internal/domain"
)

// Uploads beyond this size are spooled to temp files by mime/multipart.
const multipartMemory = 32 << 20

type textRequest struct {
	Text string `json:"text"`
}

// ConversionHandler exposes the conversion pipeline over HTTP
type ConversionHandler struct {
	conversionService domain.ConversionService
	logger            domain.Logger
	maxBodySize       int64
}

// NewConversionHandler creates a new conversion handler. Request bodies are
// capped at maxBodySize bytes.
func NewConversionHandler(conversionService domain.ConversionService, logger domain.Logger, maxBodySize int64) *ConversionHandler {
	return &ConversionHandler{
		conversionService: conversionService,
		logger:            logger,
		maxBodySize:       maxBodySize,
	}
}

// TextToPDF accepts {"text": "..."} or a form field named text
func (h *ConversionHandler) TextToPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var text string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req textRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeBodyError(w, err, "Invalid request body")
			return
		}
		text = req.Text
	} else {
		if !h.parseForm(w, r) {
			return
		}
		defer removeMultipart(r)
		text = r.FormValue("text")
	}

	artifact, err := h.conversionService.TextToPDF(r.Context(), user, text)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeAttachment(w, artifact)
}

// MergePDFs concatenates the files uploaded under pdfs, in upload order
func (h *ConversionHandler) MergePDFs(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if !h.parseForm(w, r) {
		return
	}
	defer removeMultipart(r)

	files, err := readFormFiles(r, "pdfs")
	if err != nil {
		h.logger.Error("Failed to read uploaded PDFs", err)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded files")
		return
	}

	artifact, err := h.conversionService.MergePDFs(r.Context(), user, files)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeAttachment(w, artifact)
}

// PDFToWord converts the file uploaded under pdf to DOCX
func (h *ConversionHandler) PDFToWord(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if !h.parseForm(w, r) {
		return
	}
	defer removeMultipart(r)

	pdf, err := readFormFile(r, "pdf")
	if err != nil {
		h.logger.Error("Failed to read uploaded PDF", err)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	artifact, err := h.conversionService.PDFToWord(r.Context(), user, pdf)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeAttachment(w, artifact)
}

// HighlightPDF marks every occurrence of the text field in the uploaded pdf
func (h *ConversionHandler) HighlightPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if !h.parseForm(w, r) {
		return
	}
	defer removeMultipart(r)

	pdf, err := readFormFile(r, "pdf")
	if err != nil {
		h.logger.Error("Failed to read uploaded PDF", err)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	artifact, err := h.conversionService.HighlightPDF(r.Context(), user, pdf, r.FormValue("text"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeAttachment(w, artifact)
}

// WordToPDF renders the text of the DOCX uploaded under docx as a PDF
func (h *ConversionHandler) WordToPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if !h.parseForm(w, r) {
		return
	}
	defer removeMultipart(r)

	docx, err := readFormFile(r, "docx")
	if err != nil {
		h.logger.Error("Failed to read uploaded Word file", err)
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	artifact, err := h.conversionService.WordToPDF(r.Context(), user, docx)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeAttachment(w, artifact)
}

// parseForm parses a multipart or urlencoded body. A request that is not
// multipart is treated as an empty form so field validation reports what is
// missing. Returns false after writing an error response.
func (h *ConversionHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return true
	}
	h.writeBodyError(w, err, "Invalid multipart form")
	return false
}

func (h *ConversionHandler) writeBodyError(w http.ResponseWriter, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	h.logger.Debug("Unreadable request body", "error", err.Error())
	writeError(w, http.StatusBadRequest, message)
}

func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// readFormFile returns the first file uploaded under field, or nil when there
// is none.
func readFormFile(r *http.Request, field string) ([]byte, error) {
	files, err := readFormFiles(r, field)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return files[0], nil
}

// readFormFiles reads every file uploaded under field in upload order.
func readFormFiles(r *http.Request, field string) ([][]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([][]byte, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, data)
	}
	return files, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

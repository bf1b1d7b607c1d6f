package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pdf-toolkit/internal/domain"
	apperrors "pdf-toolkit/pkg/errors"
)

type mockConversionService struct {
	err error

	lastUser   *domain.User
	lastText   string
	lastFiles  [][]byte
	lastPDF    []byte
	lastDocx   []byte
	calledWith string
}

func (m *mockConversionService) result(op, fileName, contentType string) (*domain.Artifact, error) {
	m.calledWith = op
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Artifact{FileName: fileName, ContentType: contentType, Data: []byte("artifact:" + op)}, nil
}

func (m *mockConversionService) TextToPDF(ctx context.Context, user *domain.User, text string) (*domain.Artifact, error) {
	m.lastUser, m.lastText = user, text
	return m.result("text", "converted.pdf", domain.ContentTypePDF)
}

func (m *mockConversionService) MergePDFs(ctx context.Context, user *domain.User, files [][]byte) (*domain.Artifact, error) {
	m.lastUser, m.lastFiles = user, files
	return m.result("merge", "merged.pdf", domain.ContentTypePDF)
}

func (m *mockConversionService) PDFToWord(ctx context.Context, user *domain.User, pdf []byte) (*domain.Artifact, error) {
	m.lastUser, m.lastPDF = user, pdf
	return m.result("to-word", "converted.docx", domain.ContentTypeDOCX)
}

func (m *mockConversionService) HighlightPDF(ctx context.Context, user *domain.User, pdf []byte, text string) (*domain.Artifact, error) {
	m.lastUser, m.lastPDF, m.lastText = user, pdf, text
	return m.result("highlight", "highlighted.pdf", domain.ContentTypePDF)
}

func (m *mockConversionService) WordToPDF(ctx context.Context, user *domain.User, docx []byte) (*domain.Artifact, error) {
	m.lastUser, m.lastDocx = user, docx
	return m.result("from-word", "word_converted.pdf", domain.ContentTypePDF)
}

type formFile struct {
	field   string
	name    string
	content string
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

var handlerTestUser = &domain.User{ID: "user-123", Username: "alice"}

func withUser(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), userContextKey, handlerTestUser))
}

func newTestConversionHandler(svc domain.ConversionService) *ConversionHandler {
	return NewConversionHandler(svc, NewMockHandlerLogger(), 1<<20)
}

func TestConversionHandler_TextToPDF_JSON(t *testing.T) {
	svc := &mockConversionService{}
	h := newTestConversionHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/text-to-pdf", strings.NewReader(`{"text":"hello\nworld"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.TextToPDF(rr, withUser(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if svc.lastText != "hello\nworld" {
		t.Fatalf("unexpected text %q", svc.lastText)
	}
	if svc.lastUser != handlerTestUser {
		t.Fatalf("expected context user to be passed through")
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="converted.pdf"` {
		t.Fatalf("unexpected Content-Disposition: %s", got)
	}
}

func TestConversionHandler_TextToPDF_Form(t *testing.T) {
	svc := &mockConversionService{}
	h := newTestConversionHandler(svc)

	form := url.Values{"text": {"from a form"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/text-to-pdf", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	h.TextToPDF(rr, withUser(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if svc.lastText != "from a form" {
		t.Fatalf("unexpected text %q", svc.lastText)
	}
}

func TestConversionHandler_MergeKeepsUploadOrder(t *testing.T) {
	svc := &mockConversionService{}
	h := newTestConversionHandler(svc)

	body, contentType := multipartBody(t, nil,
		formFile{"pdfs", "a.pdf", "first"},
		formFile{"pdfs", "b.pdf", "second"},
		formFile{"pdfs", "c.pdf", "third"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/merge", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.MergePDFs(rr, withUser(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if len(svc.lastFiles) != 3 {
		t.Fatalf("expected 3 files, got %d", len(svc.lastFiles))
	}
	for i, want := range []string{"first", "second", "third"} {
		if string(svc.lastFiles[i]) != want {
			t.Fatalf("file %d: expected %q, got %q", i, want, svc.lastFiles[i])
		}
	}
	if rr.Body.String() != "artifact:merge" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestConversionHandler_HighlightReadsFileAndText(t *testing.T) {
	svc := &mockConversionService{}
	h := newTestConversionHandler(svc)

	body, contentType := multipartBody(t, map[string]string{"text": "Hello"}, formFile{"pdf", "doc.pdf", "%PDF-data"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/highlight", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.HighlightPDF(rr, withUser(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if string(svc.lastPDF) != "%PDF-data" || svc.lastText != "Hello" {
		t.Fatalf("unexpected inputs pdf=%q text=%q", svc.lastPDF, svc.lastText)
	}
}

func TestConversionHandler_MissingFilesReachValidation(t *testing.T) {
	svc := &mockConversionService{err: apperrors.NewValidationError("PDF file is required")}
	h := newTestConversionHandler(svc)

	// No body at all: the pipeline decides what is missing.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/to-word", nil)
	rr := httptest.NewRecorder()

	h.PDFToWord(rr, withUser(req))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if svc.lastPDF != nil {
		t.Fatalf("expected nil pdf, got %q", svc.lastPDF)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"PDF file is required"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestConversionHandler_WordToPDF(t *testing.T) {
	svc := &mockConversionService{}
	h := newTestConversionHandler(svc)

	body, contentType := multipartBody(t, nil, formFile{"docx", "report.docx", "PK-data"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/from-word", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.WordToPDF(rr, withUser(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if string(svc.lastDocx) != "PK-data" {
		t.Fatalf("unexpected docx %q", svc.lastDocx)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="word_converted.pdf"` {
		t.Fatalf("unexpected Content-Disposition: %s", got)
	}
}

func TestConversionHandler_EngineErrorIs500(t *testing.T) {
	svc := &mockConversionService{err: apperrors.NewEngineError(errFake("failed to open PDF: no header"))}
	h := newTestConversionHandler(svc)

	body, contentType := multipartBody(t, nil, formFile{"pdf", "doc.pdf", "junk"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/to-word", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.PDFToWord(rr, withUser(req))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "failed to open PDF: no header") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestConversionHandler_BodyTooLarge(t *testing.T) {
	svc := &mockConversionService{}
	h := NewConversionHandler(svc, NewMockHandlerLogger(), 64)

	body, contentType := multipartBody(t, nil, formFile{"pdf", "big.pdf", strings.Repeat("x", 4096)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/to-word", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.PDFToWord(rr, withUser(req))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if svc.calledWith != "" {
		t.Fatalf("service must not be called, got %s", svc.calledWith)
	}
}

func TestConversionHandler_NoUserInContext(t *testing.T) {
	svc := &mockConversionService{}
	h := newTestConversionHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf/text-to-pdf", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.TextToPDF(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if svc.calledWith != "" {
		t.Fatalf("service must not be called, got %s", svc.calledWith)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

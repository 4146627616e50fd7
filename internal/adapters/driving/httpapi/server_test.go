package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// stubService implements driving.DemystifyService for handler tests.
type stubService struct {
	session    *domain.Session
	answer     string
	createErr  error
	getErr     error
	askErr     error
	deleteErr  error
	uploadPath string
}

func (s *stubService) Create(_ context.Context, _ string) (*domain.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.session, nil
}

func (s *stubService) CreateUpload(_ context.Context, filePath string) (*domain.Session, error) {
	s.uploadPath = filePath
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.session, nil
}

func (s *stubService) Get(_ context.Context, _ string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.session, nil
}

func (s *stubService) Ask(_ context.Context, _, _ string) (string, error) {
	if s.askErr != nil {
		return "", s.askErr
	}
	return s.answer, nil
}

func (s *stubService) Delete(_ context.Context, _ string) error {
	return s.deleteErr
}

func (s *stubService) List(_ context.Context) ([]domain.Session, error) {
	if s.session == nil {
		return nil, nil
	}
	return []domain.Session{*s.session}, nil
}

func testSession() *domain.Session {
	return &domain.Session{
		ID: "sess-1",
		Document: domain.Document{
			ID:    "doc-1",
			Title: "contract.pdf",
		},
		Report: domain.Report{
			Summary: "A simple summary.",
			KeyTerms: []domain.ExplainedTerm{
				{Term: "Indemnity", Explanation: "You cover losses.", ResourceLink: "https://example.org"},
			},
			OverallAdvice: domain.OverallAdvice,
		},
		CreatedAt: time.Now(),
	}
}

func newTestServer(t *testing.T, svc *stubService) *Server {
	t.Helper()
	server, err := New(svc, Config{UploadDir: t.TempDir()})
	require.NoError(t, err)
	return server
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	stub := &stubService{session: testSession()}
	server := newTestServer(t, stub)

	body, contentType := multipartBody(t, "contract.txt", "some contract text")
	req := httptest.NewRequest(http.MethodPost, "/demystify/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SessionID string        `json:"session_id"`
		Report    domain.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "A simple summary.", resp.Report.Summary)
	require.Len(t, resp.Report.KeyTerms, 1)
	assert.Equal(t, "Indemnity", resp.Report.KeyTerms[0].Term)

	// The stored copy is handed over as a service-owned upload.
	assert.NotEmpty(t, stub.uploadPath)
	assert.Equal(t, ".txt", filepath.Ext(stub.uploadPath))
}

func TestUpload_MissingFile(t *testing.T) {
	server := newTestServer(t, &stubService{session: testSession()})

	req := httptest.NewRequest(http.MethodPost, "/demystify/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_EmptyDocument(t *testing.T) {
	server := newTestServer(t, &stubService{createErr: domain.ErrEmptyDocument})

	body, contentType := multipartBody(t, "empty.pdf", "")
	req := httptest.NewRequest(http.MethodPost, "/demystify/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No text could be extracted")
}

func TestUpload_UnsupportedType(t *testing.T) {
	server := newTestServer(t, &stubService{createErr: domain.ErrUnsupportedType})

	body, contentType := multipartBody(t, "image.png", "binary")
	req := httptest.NewRequest(http.MethodPost, "/demystify/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_Success(t *testing.T) {
	server := newTestServer(t, &stubService{answer: "You get 30 days notice."})

	body := `{"session_id": "sess-1", "question": "What is the notice period?"}`
	req := httptest.NewRequest(http.MethodPost, "/demystify/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You get 30 days notice.")
}

func TestChat_MissingFields(t *testing.T) {
	server := newTestServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/demystify/chat", strings.NewReader(`{"question": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_SessionNotFound(t *testing.T) {
	server := newTestServer(t, &stubService{askErr: domain.ErrSessionNotFound})

	body := `{"session_id": "gone", "question": "anyone home?"}`
	req := httptest.NewRequest(http.MethodPost, "/demystify/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "upload the document again")
}

func TestChat_RateLimited(t *testing.T) {
	server := newTestServer(t, &stubService{askErr: domain.ErrRateLimited})

	body := `{"session_id": "sess-1", "question": "q"}`
	req := httptest.NewRequest(http.MethodPost, "/demystify/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestChat_CapabilityUnavailable(t *testing.T) {
	server := newTestServer(t, &stubService{askErr: domain.ErrGenerationUnavailable})

	body := `{"session_id": "sess-1", "question": "q"}`
	req := httptest.NewRequest(http.MethodPost, "/demystify/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetSession(t *testing.T) {
	server := newTestServer(t, &stubService{session: testSession()})

	req := httptest.NewRequest(http.MethodGet, "/demystify/session/sess-1", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "contract.pdf")
}

func TestListSessions(t *testing.T) {
	server := newTestServer(t, &stubService{session: testSession()})

	req := httptest.NewRequest(http.MethodGet, "/demystify/sessions", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sess-1")
}

func TestDeleteSession(t *testing.T) {
	server := newTestServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/demystify/session/sess-1", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteSession_NotFound(t *testing.T) {
	server := newTestServer(t, &stubService{deleteErr: domain.ErrSessionNotFound})

	req := httptest.NewRequest(http.MethodDelete, "/demystify/session/gone", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

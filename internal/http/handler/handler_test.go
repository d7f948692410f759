package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"dms/internal/filetype"
	"dms/internal/http/middleware"
	"dms/internal/model"
	"dms/internal/policy"
	"dms/internal/service"
	serviceMocks "dms/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// identity injects caller locals the way the auth middleware would.
func identity(userID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(middleware.AuthUserLocalKey, userID)
			c.Locals(middleware.AuthRoleLocalKey, role)
		}
		return c.Next()
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if fileContent != nil {
		fw, err := w.CreateFormFile("file", "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var p errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&p))
	return p
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadDocument(t *testing.T) {
	pdf := []byte("%PDF-1.4 body")

	t.Run("missing role is rejected before any work", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Post("/documents", UploadDocument(mockSvc))

		body, ct := multipartBody(t, nil, pdf)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("viewer role is rejected", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Use(identity("user-1", "Viewer"))
		app.Post("/documents", UploadDocument(mockSvc))

		body, ct := multipartBody(t, nil, pdf)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("editor uploads with visibility and tags", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Use(identity("user-1", policy.RoleEditor))
		app.Post("/documents", UploadDocument(mockSvc))

		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.UserID == "user-1" &&
				in.IsPublic &&
				assert.ObjectsAreEqual([]string{"invoice", "2024"}, in.Tags) &&
				bytes.Equal(in.Payload, pdf)
		})).Return(&service.MutationResult{
			Document: &model.DocumentMetadata{ID: 7, FileName: "7.pdf", Tags: []string{"invoice", "2024"}},
		}, nil).Once()

		body, ct := multipartBody(t, map[string]string{
			"isPublic": "true",
			"tags":     "invoice,2024",
		}, pdf)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got documentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "7.pdf", got.FileName)
		assert.Equal(t, []string{"invoice", "2024"}, got.Tags)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Use(identity("user-1", policy.RoleAdmin))
		app.Post("/documents", UploadDocument(mockSvc))

		body, ct := multipartBody(t, map[string]string{"isPublic": "true"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("unrecognized type maps to 400", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Use(identity("user-1", policy.RoleAdmin))
		app.Post("/documents", UploadDocument(mockSvc))

		mockSvc.On("Upload", mock.Anything, mock.Anything).
			Return(nil, filetype.ErrUnrecognized).Once()

		body, ct := multipartBody(t, nil, []byte("GIF89a not a pdf"))
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "UNRECOGNIZED_TYPE", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("storage failure never leaks detail", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Use(identity("user-1", policy.RoleAdmin))
		app.Post("/documents", UploadDocument(mockSvc))

		mockSvc.On("Upload", mock.Anything, mock.Anything).
			Return(nil, errors.New(`pq: duplicate key value violates unique constraint "documents_pkey"`)).Once()

		body, ct := multipartBody(t, nil, pdf)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		payload := decodeError(t, resp.Body)
		assert.Equal(t, "INTERNAL_ERROR", payload.Error.Code)
		assert.NotContains(t, payload.Error.Message, "pq:")
	})
}

func TestGetDocument(t *testing.T) {
	newApp := func(svc service.DocumentService, userID, role string) *fiber.App {
		app := fiber.New()
		app.Use(identity(userID, role))
		app.Get("/documents/:id", GetDocument(svc))
		return app
	}

	t.Run("invalid id", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		resp, _ := newApp(mockSvc, "", "").Test(httptest.NewRequest(http.MethodGet, "/documents/abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Get", mock.Anything, int64(99)).Return(nil, service.ErrNotFound)

		resp, _ := newApp(mockSvc, "", "").Test(httptest.NewRequest(http.MethodGet, "/documents/99", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("public document readable without identity", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Get", mock.Anything, int64(1)).
			Return(&model.DocumentMetadata{ID: 1, FileName: "1.pdf", IsPublic: true}, nil)

		resp, _ := newApp(mockSvc, "", "").Test(httptest.NewRequest(http.MethodGet, "/documents/1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("private document rejects unauthenticated caller", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Get", mock.Anything, int64(2)).
			Return(&model.DocumentMetadata{ID: 2, IsPublic: false}, nil)

		resp, _ := newApp(mockSvc, "", "").Test(httptest.NewRequest(http.MethodGet, "/documents/2", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("private document readable by any authenticated caller", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Get", mock.Anything, int64(2)).
			Return(&model.DocumentMetadata{ID: 2, IsPublic: false, UserID: "someone-else"}, nil)

		resp, _ := newApp(mockSvc, "user-1", "Viewer").Test(httptest.NewRequest(http.MethodGet, "/documents/2", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestDownloadDocument(t *testing.T) {
	pdf := []byte("%PDF-1.4 exact bytes back")

	t.Run("round-trips the stored bytes with stored headers", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Get("/documents/:id/download", DownloadDocument(mockSvc))

		mockSvc.On("Download", mock.Anything, int64(1)).Return(&service.DownloadResult{
			FileName: "1.pdf",
			MimeType: "application/pdf",
			IsPublic: true,
			Content:  pdf,
		}, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/1/download", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="1.pdf"`)

		got, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, pdf, got)
	})

	t.Run("private content rejects unauthenticated caller", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Get("/documents/:id/download", DownloadDocument(mockSvc))

		mockSvc.On("Download", mock.Anything, int64(2)).Return(&service.DownloadResult{
			FileName: "2.pdf",
			IsPublic: false,
			Content:  pdf,
		}, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/2/download", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing content row", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Get("/documents/:id/download", DownloadDocument(mockSvc))

		mockSvc.On("Download", mock.Anything, int64(3)).Return(nil, service.ErrNotFound)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/3/download", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateDocument(t *testing.T) {
	newApp := func(svc service.DocumentService, role string) *fiber.App {
		app := fiber.New()
		app.Use(identity("user-1", role))
		app.Put("/documents/:id", UpdateDocument(svc))
		return app
	}

	t.Run("role gate", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		req := httptest.NewRequest(http.MethodPut, "/documents/1", bytes.NewBufferString(`{}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := newApp(mockSvc, "Viewer").Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		req := httptest.NewRequest(http.MethodPut, "/documents/1", bytes.NewBufferString(`{not json`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := newApp(mockSvc, policy.RoleAdmin).Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("partial patch applied", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(in service.UpdateInput) bool {
			return in.UserID == "user-1" &&
				in.FileName != nil && *in.FileName == "renamed.pdf" &&
				in.IsPublic == nil &&
				assert.ObjectsAreEqual([]string{"archived"}, in.Tags)
		})).Return(&service.MutationResult{
			Document: &model.DocumentMetadata{ID: 1, FileName: "renamed.pdf", Tags: []string{"archived"}},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/1",
			bytes.NewBufferString(`{"fileName":"renamed.pdf","tags":["archived"]}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := newApp(mockSvc, policy.RoleEditor).Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Update", mock.Anything, int64(9), mock.Anything).Return(nil, service.ErrNotFound)

		req := httptest.NewRequest(http.MethodPut, "/documents/9", bytes.NewBufferString(`{}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, _ := newApp(mockSvc, policy.RoleAdmin).Test(req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestReplaceDocumentContent(t *testing.T) {
	pdf := []byte("%PDF-1.7 replacement")

	newApp := func(svc service.DocumentService, role string) *fiber.App {
		app := fiber.New()
		app.Use(identity("user-1", role))
		app.Put("/documents/:id/upload", ReplaceDocumentContent(svc))
		return app
	}

	t.Run("role gate", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		body, ct := multipartBody(t, nil, pdf)
		req := httptest.NewRequest(http.MethodPut, "/documents/1/upload", body)
		req.Header.Set(fiber.HeaderContentType, ct)

		resp, _ := newApp(mockSvc, "").Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("happy path returns the updated record with a warning passthrough", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("ReplaceContent", mock.Anything, int64(5), "user-1", pdf).
			Return(&service.MutationResult{
				Document: &model.DocumentMetadata{ID: 5, FileName: "5.pdf", FileSize: int64(len(pdf))},
				Warning:  service.AuditWarning,
			}, nil).Once()

		body, ct := multipartBody(t, nil, pdf)
		req := httptest.NewRequest(http.MethodPut, "/documents/5/upload", body)
		req.Header.Set(fiber.HeaderContentType, ct)

		resp, _ := newApp(mockSvc, policy.RoleAdmin).Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got documentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "5.pdf", got.FileName)
		assert.Equal(t, service.AuditWarning, got.Warning)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing metadata row", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("ReplaceContent", mock.Anything, int64(9), "user-1", pdf).
			Return(nil, service.ErrNotFound)

		body, ct := multipartBody(t, nil, pdf)
		req := httptest.NewRequest(http.MethodPut, "/documents/9/upload", body)
		req.Header.Set(fiber.HeaderContentType, ct)

		resp, _ := newApp(mockSvc, policy.RoleAdmin).Test(req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetReport(t *testing.T) {
	newApp := func(svc service.DocumentService, role string) *fiber.App {
		app := fiber.New()
		app.Use(identity("user-1", role))
		app.Get("/reports", GetReport(svc))
		return app
	}

	t.Run("editors cannot view reports", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		resp, _ := newApp(mockSvc, policy.RoleEditor).Test(httptest.NewRequest(http.MethodGet, "/reports", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("admin receives the projection", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		mockSvc.On("Report", mock.Anything).Return([]model.DocumentReport{
			{DocumentID: 1, FileName: "1.pdf", CreatedBy: "user-1", Tags: []string{"invoice"}},
		}, nil)

		resp, _ := newApp(mockSvc, policy.RoleAdmin).Test(httptest.NewRequest(http.MethodGet, "/reports", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []model.DocumentReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, []string{"invoice"}, got[0].Tags)
	})
}

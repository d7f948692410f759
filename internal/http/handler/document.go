package handler

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"dms/internal/filetype"
	"dms/internal/http/middleware"
	"dms/internal/model"
	"dms/internal/policy"
	"dms/internal/service"
)

// documentResponse is the JSON shape for a document record.
type documentResponse struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	IsPublic     bool      `json:"isPublic"`
	CreatedDate  time.Time `json:"createdDate"`
	LastModified time.Time `json:"lastModifiedDate"`
	Tags         []string  `json:"tags,omitempty"`
	Warning      string    `json:"warning,omitempty"`
}

func newDocumentResponse(doc *model.DocumentMetadata, warning string) documentResponse {
	return documentResponse{
		ID:           doc.ID,
		FileName:     doc.FileName,
		FileSize:     doc.FileSize,
		MimeType:     doc.MimeType,
		IsPublic:     doc.IsPublic,
		CreatedDate:  doc.CreatedDate,
		LastModified: doc.LastModified,
		Tags:         doc.Tags,
		Warning:      warning,
	}
}

// updateRequest is the partial patch body for PUT /documents/:id.
// Absent fields are left untouched; tags are only ever added.
type updateRequest struct {
	FileName *string  `json:"fileName"`
	IsPublic *bool    `json:"isPublic"`
	Tags     []string `json:"tags"`
}

// writeServiceError maps service-level failures onto the standard error
// envelope. Anything unexpected becomes a generic internal error so raw
// storage diagnostics never reach the client.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
	case errors.Is(err, service.ErrFileRequired):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no file was uploaded")
	case errors.Is(err, filetype.ErrTooLarge):
		return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "maximum file size is 5 MiB")
	case errors.Is(err, filetype.ErrUnrecognized):
		return writeError(c, fiber.StatusBadRequest, "UNRECOGNIZED_TYPE", "unrecognized file type: only PDF and DOCX are accepted")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// readUploadedFile pulls the multipart "file" field into memory. The
// validator re-checks the size; the early bound here just avoids
// buffering pathological uploads before rejecting them.
func readUploadedFile(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, service.ErrFileRequired
	}
	if fh.Size > filetype.MaxFileSize {
		return nil, filetype.ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, service.ErrFileRequired
	}
	defer f.Close()
	return io.ReadAll(f)
}

// formTags collects tag names from repeated "tags" fields, each of
// which may itself be a comma-separated list.
func formTags(c *fiber.Ctx) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var tags []string
	for _, v := range form.Value["tags"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				tags = append(tags, name)
			}
		}
	}
	return tags
}

// UploadDocument handles POST /documents.
//
// @Summary Upload a document
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or DOCX payload, at most 5 MiB"
// @Param isPublic formData bool false "visibility flag"
// @Param tags formData string false "tag names, repeatable or comma-separated"
// @Success 200 {object} documentResponse
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, _ := middleware.Caller(c)
		if !policy.CanWrite(role) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "you are not allowed to upload documents")
		}

		payload, err := readUploadedFile(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		isPublic, _ := strconv.ParseBool(c.FormValue("isPublic", "false"))

		res, err := svc.Upload(c.UserContext(), service.UploadInput{
			UserID:   userID,
			IsPublic: isPublic,
			Tags:     formTags(c),
			Payload:  payload,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newDocumentResponse(res.Document, res.Warning))
	}
}

// GetDocument handles GET /documents/:id.
//
// @Summary Get document metadata
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} documentResponse
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		_, _, authenticated := middleware.Caller(c)
		if !policy.CanRead(doc.IsPublic, authenticated) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "you are not authorized to access this document")
		}
		return c.JSON(newDocumentResponse(doc, ""))
	}
}

// DownloadDocument handles GET /documents/:id/download, serving the
// exact stored bytes under the stored MIME label and file name.
//
// @Summary Download document content
// @Produce octet-stream
// @Param id path int true "document id"
// @Router /documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		res, err := svc.Download(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		_, _, authenticated := middleware.Caller(c)
		if !policy.CanRead(res.IsPublic, authenticated) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "you are not authorized to access this document")
		}

		c.Set(fiber.HeaderContentType, res.MimeType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
		return c.Send(res.Content)
	}
}

// UpdateDocument handles PUT /documents/:id.
//
// @Summary Update document metadata
// @Accept json
// @Produce json
// @Param id path int true "document id"
// @Param patch body updateRequest true "partial patch"
// @Success 200 {object} documentResponse
// @Router /documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, _ := middleware.Caller(c)
		if !policy.CanWrite(role) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "you are not allowed to edit documents")
		}
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}

		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		res, err := svc.Update(c.UserContext(), id, service.UpdateInput{
			UserID:   userID,
			FileName: req.FileName,
			IsPublic: req.IsPublic,
			Tags:     req.Tags,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newDocumentResponse(res.Document, res.Warning))
	}
}

// ReplaceDocumentContent handles PUT /documents/:id/upload. The new
// payload overwrites the stored bytes and checksum; the file name keeps
// its original pattern.
//
// @Summary Replace document content
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "document id"
// @Param file formData file true "PDF or DOCX payload, at most 5 MiB"
// @Success 200 {object} documentResponse
// @Router /documents/{id}/upload [put]
func ReplaceDocumentContent(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, _ := middleware.Caller(c)
		if !policy.CanWrite(role) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "you are not allowed to edit documents")
		}
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}

		payload, err := readUploadedFile(c)
		if err != nil {
			return writeServiceError(c, err)
		}

		res, err := svc.ReplaceContent(c.UserContext(), id, userID, payload)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newDocumentResponse(res.Document, res.Warning))
	}
}

// GetReport handles GET /reports: the read-only projection consumed by
// the report export collaborator. Formatting (spreadsheet, PDF) lives
// with that collaborator, not here.
//
// @Summary Document report projection
// @Produce json
// @Success 200 {array} model.DocumentReport
// @Router /reports [get]
func GetReport(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, _ := middleware.Caller(c)
		if !policy.CanViewReports(role) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "you are not allowed to view reports")
		}
		reports, err := svc.Report(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(reports)
	}
}

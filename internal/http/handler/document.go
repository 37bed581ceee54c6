package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/llsaimur/papertrails/internal/http/middleware"
	"github.com/llsaimur/papertrails/internal/service"
)

// ownerFromCtx extracts the authenticated subject set by middleware.Auth.
func ownerFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(middleware.UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}

// UploadDocument accepts a multipart upload (file, title, description,
// category_id) and starts asynchronous processing. The response carries the
// task handle to poll.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.Submit(c.UserContext(), service.SubmitInput{
			OwnerID:     ownerFromCtx(c),
			File:        f,
			FileName:    fh.Filename,
			Size:        fh.Size,
			ContentType: ct,
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			CategoryID:  c.FormValue("category_id"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(res)
	}
}

// GetDocumentStatus polls the remote task behind a record and applies the
// resulting state transition.
func GetDocumentStatus(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.CheckStatus(c.UserContext(), ownerFromCtx(c), c.Params("taskId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListDocuments returns a page of the owner's documents, optionally filtered
// by category and importance.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		important := c.Query("important") == "true"

		res, err := svc.List(c.UserContext(), ownerFromCtx(c), c.Query("category_id"), important, page, limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns one record joined with live remote metadata.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), ownerFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument edits a record. The multipart form mirrors UploadDocument;
// the file part is optional and triggers re-processing when present.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		in := service.UpdateInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			CategoryID:  c.FormValue("category_id"),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.File = f
			in.FileName = fh.Filename
			in.Size = fh.Size
			in.ContentType = ct
		}

		doc, err := svc.Update(c.UserContext(), ownerFromCtx(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a record along with its remote counterpart.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), ownerFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MarkDocumentImportant flips the importance flag from a JSON body.
func MarkDocumentImportant(svc service.DocumentService) fiber.Handler {
	type body struct {
		Important bool `json:"important"`
	}
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var b body
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		if err := svc.SetImportant(c.UserContext(), ownerFromCtx(c), id, b.Important); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"id": id, "important": b.Important})
	}
}

// DownloadDocument streams the processed PDF from the remote service.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, filename, err := svc.DownloadPDF(c.UserContext(), ownerFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.SendStream(rc)
	}
}

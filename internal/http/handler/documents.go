package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/service"
)

// ListDocuments returns the document table rows; ?q= filters by name.
func ListDocuments(svc *service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rows)
	}
}

// UploadDocument forwards a multipart upload (fields: case_id, file) to the backend.
func UploadDocument(svc *service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var caseID int64
		if raw := c.FormValue("case_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CASE_ID", "invalid case id")
			}
			caseID = id
		}

		file, closeFile, err := formFile(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFile()

		doc, err := svc.Upload(c.UserContext(), caseID, file)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

type templateRequest struct {
	CaseID   int64  `json:"case_id"`
	Template string `json:"template"`
	Content  string `json:"content"`
}

// CreateDocumentFromTemplate renders a judiciary template into a case document.
func CreateDocumentFromTemplate(svc *service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req templateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.CreateFromTemplate(c.UserContext(), service.TemplateInput{
			CaseID:   req.CaseID,
			Template: req.Template,
			Content:  req.Content,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument replaces a document (multipart fields: document_name, file).
func UpdateDocument(svc *service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		file, closeFile, err := formFile(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer closeFile()

		doc, err := svc.Update(c.UserContext(), id, c.FormValue("document_name"), file)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

func DeleteDocument(svc *service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DocumentReport returns totals and type counts. Download figures are simulated
// and flagged as such in the payload.
func DocumentReport(svc *service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := svc.Report(c.UserContext(), nil)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}

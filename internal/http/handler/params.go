package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lawdesk/internal/service"
)

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type statusBody struct {
	Status string `json:"status"`
}

// formFile opens the uploaded "file" part. A missing part yields an empty input and
// a no-op closer so the service can report the incomplete submission itself.
func formFile(c *fiber.Ctx) (service.FileInput, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.FileInput{}, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return service.FileInput{}, func() {}, err
	}
	return fileInput(fh, f), func() { f.Close() }, nil
}

func fileInput(fh *multipart.FileHeader, f multipart.File) service.FileInput {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return service.FileInput{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Content:     f,
	}
}

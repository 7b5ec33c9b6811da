package apiclient

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FormField is one plain form value.
type FormField struct {
	Name  string
	Value string
}

// FilePart is the file attached to a multipart submission.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Multipart is an ordered multipart/form-data payload.
type Multipart struct {
	Fields []FormField
	File   *FilePart
}

// Add appends a form value.
func (m *Multipart) Add(name, value string) {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m Multipart) encode(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)
	for _, f := range m.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	if m.File != nil {
		field := m.File.Field
		if field == "" {
			field = "file"
		}
		ct := m.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(m.File.FileName)))
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return "", fmt.Errorf("create file part: %w", err)
		}
		if m.File.Content != nil {
			if _, err := io.Copy(part, m.File.Content); err != nil {
				return "", fmt.Errorf("copy file part: %w", err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}
	return mw.FormDataContentType(), nil
}

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"lawdesk/internal/apiclient"
	"lawdesk/internal/model"
	"lawdesk/internal/notify"
	"lawdesk/internal/storage"
	"lawdesk/internal/templates"
	"lawdesk/internal/view"
)

var (
	ErrUploadIncomplete   = errors.New("case and file are required")
	ErrTemplateIncomplete = errors.New("case and template are required")
	ErrUpdateIncomplete   = errors.New("document name and file are required")
)

const (
	msgUploadIncomplete   = "Please select a case and upload a document."
	msgTemplateIncomplete = "Please select a case and a template."
	msgUpdateIncomplete   = "Please provide both a file and document name."
)

// FileInput is an uploaded file as received from the browser.
type FileInput struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// TemplateInput creates an HTML document from a judiciary template.
// Content is the edited HTML; empty means the template as is.
type TemplateInput struct {
	CaseID   int64
	Template string
	Content  string
}

// LogWriter records audit entries.
type LogWriter interface {
	Create(ctx context.Context, partial any) (model.Log, error)
}

// DocumentService runs the document upload, management and report screens.
type DocumentService struct {
	caseDocuments FormCollection[model.Document]
	documents     Lister[model.Document]
	logs          LogWriter
	store         storage.Storage
	urlExpiry     time.Duration
	notifier      notify.Notifier
	log           *slog.Logger
}

// DocumentDeps groups the collaborators of DocumentService. Store may be nil.
type DocumentDeps struct {
	CaseDocuments FormCollection[model.Document]
	Documents     Lister[model.Document]
	Logs          LogWriter
	Store         storage.Storage
	URLExpiry     time.Duration
	Notifier      notify.Notifier
	Logger        *slog.Logger
}

func NewDocumentService(d DocumentDeps) *DocumentService {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.URLExpiry <= 0 {
		d.URLExpiry = 24 * time.Hour
	}
	return &DocumentService{
		caseDocuments: d.CaseDocuments,
		documents:     d.Documents,
		logs:          d.Logs,
		store:         d.Store,
		urlExpiry:     d.URLExpiry,
		notifier:      d.Notifier,
		log:           d.Logger.With("component", "documents"),
	}
}

// Upload attaches a file to a case, then records an audit entry.
func (s *DocumentService) Upload(ctx context.Context, caseID int64, file FileInput) (model.Document, error) {
	if caseID == 0 || file.Content == nil || file.Name == "" {
		s.notify(notify.LevelError, msgUploadIncomplete)
		return model.Document{}, ErrUploadIncomplete
	}
	defer s.pending("Uploading document...")()

	var m apiclient.Multipart
	m.Add("case_id", strconv.FormatInt(caseID, 10))
	m.Add("document_name", file.Name)
	m.Add("mime_type", file.ContentType)
	m.Add("file_size", strconv.FormatInt(file.Size, 10))
	m.File = &apiclient.FilePart{
		FileName:    file.Name,
		ContentType: file.ContentType,
		Content:     file.Content,
	}

	doc, err := s.caseDocuments.CreateForm(ctx, m)
	if err != nil {
		s.notify(notify.LevelError, "Failed to upload document.")
		return model.Document{}, fmt.Errorf("upload document: %w", err)
	}
	s.audit(ctx, "Uploaded document: "+file.Name)
	s.notify(notify.LevelSuccess, "Document uploaded successfully!")
	return doc, nil
}

// CreateFromTemplate renders a template into an HTML document attached to a case.
// The HTML goes to object storage when one is configured, otherwise it is inlined as a data URL.
func (s *DocumentService) CreateFromTemplate(ctx context.Context, in TemplateInput) (model.Document, error) {
	if in.CaseID == 0 || in.Template == "" {
		s.notify(notify.LevelError, msgTemplateIncomplete)
		return model.Document{}, ErrTemplateIncomplete
	}
	tpl, err := templates.Find(in.Template)
	if err != nil {
		s.notify(notify.LevelError, msgTemplateIncomplete)
		return model.Document{}, fmt.Errorf("%w: %q", err, in.Template)
	}
	defer s.pending("Creating document...")()

	content := in.Content
	if content == "" {
		content = tpl.Content
	}
	html := []byte(templates.Sanitize(content))
	name := tpl.Name + ".html"

	docURL, err := s.documentURL(ctx, in.CaseID, name, html)
	if err != nil {
		s.notify(notify.LevelError, "Failed to create document.")
		return model.Document{}, err
	}

	var m apiclient.Multipart
	m.Add("case_id", strconv.FormatInt(in.CaseID, 10))
	m.Add("document_name", name)
	m.Add("document_url", docURL)
	m.Add("mime_type", "text/html")
	m.Add("file_size", strconv.Itoa(len(html)))

	doc, err := s.caseDocuments.CreateForm(ctx, m)
	if err != nil {
		s.notify(notify.LevelError, "Failed to create document.")
		return model.Document{}, fmt.Errorf("create document: %w", err)
	}
	s.audit(ctx, "Created document: "+name)
	s.notify(notify.LevelSuccess, "Document created successfully!")
	return doc, nil
}

func (s *DocumentService) documentURL(ctx context.Context, caseID int64, name string, html []byte) (string, error) {
	if s.store == nil {
		return "data:text/html;base64," + base64.StdEncoding.EncodeToString(html), nil
	}
	key := storage.DocumentKey(caseID, name)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(html), storage.PutObjectOptions{
		Size:        int64(len(html)),
		ContentType: "text/html",
		Metadata:    map[string]string{"document-name": name},
	}); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	u, err := s.store.PresignGet(ctx, key, s.urlExpiry)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned document object", "key", key, "error", delErr)
		}
		return "", fmt.Errorf("presign document: %w", err)
	}
	return u, nil
}

// Update renames a document and replaces its file.
func (s *DocumentService) Update(ctx context.Context, id int64, name string, file FileInput) (model.Document, error) {
	if name == "" || file.Content == nil {
		s.notify(notify.LevelError, msgUpdateIncomplete)
		return model.Document{}, ErrUpdateIncomplete
	}

	var m apiclient.Multipart
	m.Add("document_name", name)
	m.File = &apiclient.FilePart{
		FileName:    file.Name,
		ContentType: file.ContentType,
		Content:     file.Content,
	}
	doc, err := s.caseDocuments.UpdateForm(ctx, id, m)
	if err != nil {
		s.notify(notify.LevelError, "Failed to update document.")
		return model.Document{}, fmt.Errorf("update document %d: %w", id, err)
	}
	s.notify(notify.LevelSuccess, "Document updated successfully.")
	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.caseDocuments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}

// Search lists case documents whose name contains query.
func (s *DocumentService) Search(ctx context.Context, query string) ([]view.DocumentRow, error) {
	docs, err := s.caseDocuments.List(ctx)
	if err != nil {
		return nil, err
	}
	docs = view.Filter(docs, query, func(d model.Document) string { return d.DocumentName })
	return view.DocumentRows(docs), nil
}

// Report aggregates the document list. rng may be nil.
func (s *DocumentService) Report(ctx context.Context, rng *rand.Rand) (view.DocumentReport, error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return view.DocumentReport{}, err
	}
	return view.BuildDocumentReport(docs, rng), nil
}

// audit writes a log entry. A failed audit write does not fail the action it records.
func (s *DocumentService) audit(ctx context.Context, action string) {
	if _, err := s.logs.Create(ctx, map[string]any{"action": action}); err != nil {
		s.log.Warn("audit log write failed", "action", action, "error", err)
	}
}

// pending shows a toast until the returned func dismisses it.
func (s *DocumentService) pending(msg string) (dismiss func()) {
	if s.notifier == nil {
		return func() {}
	}
	t := s.notifier.Pending(msg)
	return func() { s.notifier.Dismiss(t.ID) }
}

func (s *DocumentService) notify(level notify.Level, msg string) {
	if s.notifier == nil {
		return
	}
	switch level {
	case notify.LevelSuccess:
		s.notifier.Success(msg)
	case notify.LevelError:
		s.notifier.Error(msg)
	}
}

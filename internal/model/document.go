package model

// Document is a file attached to a case. The same shape is served by both the
// caseDocuments and documents endpoints.
// DocumentID is assigned by the backend and never changes after creation.
type Document struct {
	DocumentID   int64  `json:"document_id"`
	CaseID       int64  `json:"case_id"`
	DocumentName string `json:"document_name"`
	DocumentURL  string `json:"document_url"`
	MimeType     string `json:"mime_type"`
	FileSize     int64  `json:"file_size"`
}

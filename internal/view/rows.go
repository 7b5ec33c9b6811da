package view

import (
	"time"

	"lawdesk/internal/model"
)

// DocumentRow is one line of the document table.
type DocumentRow struct {
	DocumentID  int64  `json:"document_id"`
	Name        string `json:"document_name"`
	Kind        string `json:"kind"`
	MimeType    string `json:"mime_type"`
	Size        string `json:"size"`
	CaseID      int64  `json:"case_id"`
	DownloadURL string `json:"download_url"`
}

// DocumentRows builds table rows in input order.
func DocumentRows(docs []model.Document) []DocumentRow {
	rows := make([]DocumentRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, DocumentRow{
			DocumentID:  d.DocumentID,
			Name:        d.DocumentName,
			Kind:        FileKind(d.MimeType),
			MimeType:    d.MimeType,
			Size:        FormatFileSize(d.FileSize),
			CaseID:      d.CaseID,
			DownloadURL: d.DocumentURL,
		})
	}
	return rows
}

const (
	UnknownClient = "Unknown Client"
	UnknownLawyer = "Unknown Lawyer"
)

// AppointmentRow is one line of the bookings table.
type AppointmentRow struct {
	AppointmentID int64  `json:"appointment_id"`
	Client        string `json:"client"`
	Lawyer        string `json:"lawyer"`
	Date          string `json:"appointment_date"`
	Status        string `json:"status"`
}

// AppointmentRows joins appointments with their client and lawyer names.
func AppointmentRows(appts []model.Appointment, users []model.User, lawyers []model.Lawyer, loc *time.Location) []AppointmentRow {
	clients := make(map[int64]string, len(users))
	for _, u := range users {
		clients[u.UserID] = u.FullName
	}
	names := make(map[int64]string, len(lawyers))
	for _, l := range lawyers {
		names[l.LawyerID] = l.FirstName + " " + l.LastName
	}

	rows := make([]AppointmentRow, 0, len(appts))
	for _, a := range appts {
		client, ok := clients[a.ClientID]
		if !ok {
			client = UnknownClient
		}
		lawyer, ok := names[a.LawyerID]
		if !ok {
			lawyer = UnknownLawyer
		}
		rows = append(rows, AppointmentRow{
			AppointmentID: a.AppointmentID,
			Client:        client,
			Lawyer:        lawyer,
			Date:          FormatDate(a.AppointmentDate, loc),
			Status:        a.Status,
		})
	}
	return rows
}

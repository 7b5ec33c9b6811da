package api

import (
	"lawdesk/internal/apiclient"
	"lawdesk/internal/cache"
	"lawdesk/internal/model"
)

const (
	TagCase         cache.Tag = "Case"
	TagCaseDocument cache.Tag = "CaseDocument"
	TagDocument     cache.Tag = "Document"
	TagAppointment  cache.Tag = "Appointment"
	TagTicket       cache.Tag = "Ticket"
	TagLog          cache.Tag = "Log"
	TagUser         cache.Tag = "User"
	TagLawyer       cache.Tag = "Lawyer"
)

// Registry holds every resource slice of the application.
type Registry struct {
	Cases         *Slice[model.Case, int64]
	CaseDocuments *Slice[model.Document, int64]
	Documents     *Slice[model.Document, int64]
	Appointments  *Slice[model.Appointment, int64]
	Tickets       *Slice[model.Ticket, int64]
	Logs          *Slice[model.Log, int64]
	Users         *Slice[model.User, int64]
	Lawyers       *Slice[model.Lawyer, int64]
}

// New builds all slices over one client and one store.
func New(c *apiclient.Client, store *cache.Store) *Registry {
	mount := cache.TagOptions{RefetchOnMount: true}
	return &Registry{
		Cases: NewSlice[model.Case, int64](c, store, "cases", TagCase, cache.TagOptions{}),
		CaseDocuments: NewSlice[model.Document, int64](c, store, "caseDocuments", TagCaseDocument, cache.TagOptions{
			RefetchOnReconnect: true,
			RefetchOnMount:     true,
		}),
		Documents:    NewSlice[model.Document, int64](c, store, "documents", TagDocument, mount),
		Appointments: NewSlice[model.Appointment, int64](c, store, "appointments", TagAppointment, mount),
		Tickets:      NewSlice[model.Ticket, int64](c, store, "tickets", TagTicket, cache.TagOptions{}),
		Logs:         NewSlice[model.Log, int64](c, store, "logs", TagLog, cache.TagOptions{}),
		Users:        NewSlice[model.User, int64](c, store, "users", TagUser, mount),
		Lawyers:      NewSlice[model.Lawyer, int64](c, store, "lawyers", TagLawyer, mount),
	}
}

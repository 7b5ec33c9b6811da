package service

import (
	"context"

	"lawdesk/internal/form"
	"lawdesk/internal/model"
	"lawdesk/internal/notify"
	"lawdesk/internal/view"
)

var TicketStatuses = []string{"open", "in_progress", "resolved", "closed"}

// TicketSchema validates the support ticket form.
func TicketSchema() *form.Schema {
	return form.NewSchema(
		form.Field{Name: "subject", Kind: form.String, Default: "", Rules: []form.Rule{
			form.Required("Subject is required"),
			form.MinLength(5, "Subject must be at least 5 characters"),
		}},
		form.Field{Name: "description", Kind: form.String, Default: "", Rules: []form.Rule{
			form.Required("Description is required"),
			form.MinLength(10, "Description must be at least 10 characters"),
		}},
		form.Field{Name: "status", Kind: form.String, Default: "open", Rules: []form.Rule{
			form.Required("Status is required"),
			form.OneOf("Status is not valid", TicketStatuses...),
		}},
	)
}

// TicketService runs the support ticket screens.
type TicketService struct {
	tickets Collection[model.Ticket]
	users   UserSource
	form    *form.Form
}

func NewTicketService(tickets Collection[model.Ticket], users UserSource, n notify.Notifier) *TicketService {
	return &TicketService{
		tickets: tickets,
		users:   users,
		form: form.New(TicketSchema(), n, form.Messages{
			Success: "Ticket created successfully!",
			Failure: "Failed to create ticket.",
		}),
	}
}

func (s *TicketService) Form() *form.Form { return s.form }

// Submit raises a ticket for the signed-in user.
func (s *TicketService) Submit(ctx context.Context) error {
	inject := map[string]any{"user_id": s.users.CurrentUserID()}
	return s.form.Submit(ctx, inject, func(ctx context.Context, values map[string]any) error {
		_, err := s.tickets.Create(ctx, values)
		return err
	})
}

// Search lists tickets whose subject or status contains query.
func (s *TicketService) Search(ctx context.Context, query string) ([]model.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Filter(tickets, query,
		func(t model.Ticket) string { return t.Subject },
		func(t model.Ticket) string { return t.Status },
	), nil
}

// UpdateStatus moves a ticket to another status.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status string) (model.Ticket, error) {
	schema := form.NewSchema(form.Field{Name: "status", Kind: form.String, Rules: []form.Rule{
		form.Required("Status is required"),
		form.OneOf("Status is not valid", TicketStatuses...),
	}})
	values, errs := schema.Validate(map[string]any{"status": status})
	if errs != nil {
		return model.Ticket{}, &form.ValidationError{Fields: errs}
	}
	return s.tickets.Update(ctx, id, values)
}

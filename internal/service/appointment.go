package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"lawdesk/internal/form"
	"lawdesk/internal/model"
	"lawdesk/internal/notify"
	"lawdesk/internal/view"
)

var AppointmentStatuses = []string{"pending", "confirmed", "completed", "cancelled"}

// AppointmentSchema validates the booking form. lawyer_id comes from a select whose
// placeholder option is empty, so an unselected lawyer reads as missing.
func AppointmentSchema() *form.Schema {
	return form.NewSchema(
		form.Field{Name: "lawyer_id", Kind: form.Integer, Default: 0, Rules: []form.Rule{
			form.Required("Lawyer is required"),
		}},
		form.Field{Name: "appointment_date", Kind: form.String, Default: "", Rules: []form.Rule{
			form.Required("Appointment date is required"),
		}},
		form.Field{Name: "status", Kind: form.String, Default: "pending", Rules: []form.Rule{
			form.Required("Status is required"),
		}},
	)
}

// AppointmentService runs the booking screens.
type AppointmentService struct {
	appointments Collection[model.Appointment]
	users        Lister[model.User]
	lawyers      Lister[model.Lawyer]
	session      UserSource
	form         *form.Form
	loc          *time.Location
}

func NewAppointmentService(
	appointments Collection[model.Appointment],
	users Lister[model.User],
	lawyers Lister[model.Lawyer],
	session UserSource,
	n notify.Notifier,
	loc *time.Location,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		lawyers:      lawyers,
		session:      session,
		loc:          loc,
		form: form.New(AppointmentSchema(), n, form.Messages{
			Success: "Appointment created successfully!",
			Failure: "Failed to create appointment.",
		}),
	}
}

func (s *AppointmentService) Form() *form.Form { return s.form }

// Submit books an appointment with the signed-in user as client.
func (s *AppointmentService) Submit(ctx context.Context) error {
	inject := map[string]any{"client_id": s.session.CurrentUserID()}
	return s.form.Submit(ctx, inject, func(ctx context.Context, values map[string]any) error {
		_, err := s.appointments.Create(ctx, values)
		return err
	})
}

// Lawyers feeds the lawyer dropdown.
func (s *AppointmentService) Lawyers(ctx context.Context) ([]model.Lawyer, error) {
	return s.lawyers.List(ctx)
}

// Rows loads appointments, users and lawyers in parallel and joins them.
func (s *AppointmentService) Rows(ctx context.Context) ([]view.AppointmentRow, error) {
	var (
		appts   []model.Appointment
		users   []model.User
		lawyers []model.Lawyer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		appts, err = s.appointments.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		lawyers, err = s.lawyers.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view.AppointmentRows(appts, users, lawyers, s.loc), nil
}

// UpdateStatus moves an appointment to another status.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id int64, status string) (model.Appointment, error) {
	schema := form.NewSchema(form.Field{Name: "status", Kind: form.String, Rules: []form.Rule{
		form.Required("Status is required"),
		form.OneOf("Status is not valid", AppointmentStatuses...),
	}})
	values, errs := schema.Validate(map[string]any{"status": status})
	if errs != nil {
		return model.Appointment{}, &form.ValidationError{Fields: errs}
	}
	return s.appointments.Update(ctx, id, values)
}

func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	_, err := s.appointments.Delete(ctx, id)
	return err
}

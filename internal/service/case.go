package service

import (
	"context"

	"lawdesk/internal/form"
	"lawdesk/internal/model"
	"lawdesk/internal/notify"
	"lawdesk/internal/view"
)

var (
	CaseTypes       = []string{"criminal", "civil", "family", "corporate", "property", "employment", "intellectual_property", "immigration"}
	CaseStatuses    = []string{"open", "in_progress", "closed"}
	PaymentStatuses = []string{"pending", "paid", "failed"}
)

// CaseSchema validates the create-case form.
func CaseSchema() *form.Schema {
	return form.NewSchema(
		form.Field{Name: "case_type", Kind: form.String, Default: "criminal", Rules: []form.Rule{
			form.Required("Case type is required"),
		}},
		form.Field{Name: "case_status", Kind: form.String, Default: "open", Rules: []form.Rule{
			form.Required("Case status is required"),
		}},
		form.Field{Name: "case_number", Kind: form.String, Default: "", Rules: []form.Rule{
			form.Required("Case number is required"),
			form.MinLength(5, "Case number must be at least 5 characters"),
		}},
		form.Field{Name: "case_track_number", Kind: form.String, Default: "", Rules: []form.Rule{
			form.Required("Track number is required"),
			form.MinLength(5, "Track number must be at least 5 characters"),
		}},
		form.Field{Name: "fee", Kind: form.Number, Default: 0, TypeError: "Fee must be a number", Rules: []form.Rule{
			form.Required("Fee is required"),
			form.Positive("Fee must be a positive number"),
		}},
		form.Field{Name: "payment_status", Kind: form.String, Default: "pending", Rules: []form.Rule{
			form.Required("Payment status is required"),
		}},
		form.Field{Name: "case_description", Kind: form.String, Default: "", Rules: []form.Rule{
			form.Required("Case description is required"),
			form.MinLength(10, "Description must be at least 10 characters"),
		}},
	)
}

// CaseService runs the case screens.
type CaseService struct {
	cases Collection[model.Case]
	users UserSource
	form  *form.Form
}

func NewCaseService(cases Collection[model.Case], users UserSource, n notify.Notifier) *CaseService {
	return &CaseService{
		cases: cases,
		users: users,
		form: form.New(CaseSchema(), n, form.Messages{
			Success: "Case created successfully!",
			Failure: "Failed to create case.",
		}),
	}
}

// Form returns the create-case form.
func (s *CaseService) Form() *form.Form { return s.form }

// Submit creates a case from the form on behalf of the signed-in user.
func (s *CaseService) Submit(ctx context.Context) error {
	inject := map[string]any{"user_id": s.users.CurrentUserID()}
	return s.form.Submit(ctx, inject, func(ctx context.Context, values map[string]any) error {
		_, err := s.cases.Create(ctx, values)
		return err
	})
}

// Search lists cases whose number or track number contains query.
func (s *CaseService) Search(ctx context.Context, query string) ([]model.Case, error) {
	cases, err := s.cases.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Filter(cases, query,
		func(c model.Case) string { return c.CaseNumber },
		func(c model.Case) string { return c.CaseTrackNumber },
	), nil
}

func (s *CaseService) Get(ctx context.Context, id int64) (model.Case, error) {
	return s.cases.Get(ctx, id)
}

func (s *CaseService) Delete(ctx context.Context, id int64) error {
	_, err := s.cases.Delete(ctx, id)
	return err
}

package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	formcore "github.com/renthub/profile-service/internal/form"
	"github.com/renthub/profile-service/internal/platform/auth"
	"github.com/renthub/profile-service/internal/service/account"
)

var bearerSecurity = []map[string][]string{
	{"bearerAuth": {}},
}

// Register registers form session endpoints.
func Register(api huma.API, mgr *formcore.Manager, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID:   "open-settings-form",
		Method:        http.MethodPost,
		Path:          "/forms/settings",
		Summary:       "Open a personal settings form",
		Description:   "Starts an editing session over the authenticated user's own profile.",
		Tags:          []string{"Forms"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, _ *OpenSettingsInput) (*OpenOutput, error) {
		actor, err := verifiedActor(ctx)
		if err != nil {
			return nil, err
		}
		s, err := mgr.OpenSettings(ctx, actor)
		if err != nil {
			return nil, mapFormError(err)
		}
		return &OpenOutput{
			Location: fmt.Sprintf("%s/forms/%s", prefix, s.ID),
			Body:     toHTTPSession(s.Snapshot()),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "open-organization-form",
		Method:        http.MethodPost,
		Path:          "/forms/organization",
		Summary:       "Open an organization form",
		Description:   "Starts an editing session over an organizational account.",
		Tags:          []string{"Forms"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *OpenOrganizationInput) (*OpenOutput, error) {
		actor, err := verifiedActor(ctx)
		if err != nil {
			return nil, err
		}
		s, err := mgr.OpenOrganization(ctx, actor, input.Org)
		if err != nil {
			return nil, mapFormError(err)
		}
		return &OpenOutput{
			Location: fmt.Sprintf("%s/forms/%s", prefix, s.ID),
			Body:     toHTTPSession(s.Snapshot()),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-form",
		Method:      http.MethodGet,
		Path:        "/forms/{id}",
		Summary:     "Get form session state",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *SessionInput) (*SessionOutput, error) {
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		return &SessionOutput{Body: toHTTPSession(s.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "close-form",
		Method:        http.MethodDelete,
		Path:          "/forms/{id}",
		Summary:       "Discard a form session",
		Tags:          []string{"Forms"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *SessionInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)
		if err := mgr.Close(input.ID, user.UID); err != nil {
			return nil, mapFormError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-form-fields",
		Method:      http.MethodPatch,
		Path:        "/forms/{id}/fields",
		Summary:     "Edit form fields",
		Description: "Applies one batch of field edits. Only provided fields change.",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UpdateFieldsInput) (*SessionOutput, error) {
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		changes := formcore.FieldChanges{
			FullName: input.Body.FullName,
			Phone:    input.Body.Phone,
			Location: input.Body.Location,
			Bio:      input.Body.Bio,
		}
		if input.Body.BirthDate != nil {
			bd, err := time.Parse(time.RFC3339, *input.Body.BirthDate)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("invalid birth date")
			}
			changes.BirthDate = &bd
		}
		s.ApplyFields(changes)
		if input.Body.Phone != nil && *input.Body.Phone != "" {
			s.ValidatePhone()
		}
		return &SessionOutput{Body: toHTTPSession(s.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "validate-form-name",
		Method:      http.MethodPost,
		Path:        "/forms/{id}/name/validate",
		Summary:     "Check display-name uniqueness",
		Description: "Runs the remote uniqueness check for the current display name. A backend failure is reported as a notice; the form stays editable.",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *ValidateNameInput) (*SessionOutput, error) {
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		// Remote failure surfaces as a notice in the session view.
		_ = s.ValidateName(ctx)
		return &SessionOutput{Body: toHTTPSession(s.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "upload-form-avatar",
		Method:      http.MethodPost,
		Path:        "/forms/{id}/avatar",
		Summary:     "Upload an avatar image",
		Description: "Sends the image to the media host and applies the returned reference. Failure leaves the previous avatar in place.",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *UploadAvatarInput) (*SessionOutput, error) {
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		if err := s.UploadAvatar(ctx, input.Body.Filename, input.Body.Data); err != nil {
			if errors.Is(err, formcore.ErrNoProfile) {
				return nil, huma.Error409Conflict("no profile loaded")
			}
			// Transport failure is a notice; the session view carries it.
		}
		return &SessionOutput{Body: toHTTPSession(s.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-form-preference",
		Method:      http.MethodPost,
		Path:        "/forms/{id}/preference",
		Summary:     "Toggle the variant preference flag",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *TogglePreferenceInput) (*SessionOutput, error) {
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		_ = s.TogglePreference(ctx, input.Body.Enabled)
		return &SessionOutput{Body: toHTTPSession(s.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resend-form-activation",
		Method:      http.MethodPost,
		Path:        "/forms/{id}/activation/resend",
		Summary:     "Resend the activation email",
		Description: "Asks the account backend to resend the activation email. Requires the admin claim.",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *ResendActivationInput) (*SessionOutput, error) {
		user := auth.UserFromContext(ctx)
		if !user.Admin {
			return nil, huma.Error403Forbidden("admin claim required")
		}
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		_ = s.ResendActivation(ctx)
		return &SessionOutput{Body: toHTTPSession(s.Snapshot())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-form",
		Method:      http.MethodPost,
		Path:        "/forms/{id}/submit",
		Summary:     "Submit the form",
		Description: "Runs the full commit sequence. Validation and backend failures are reported in the outcome; the form stays editable.",
		Tags:        []string{"Forms"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
		s, err := lookup(ctx, mgr, input.ID)
		if err != nil {
			return nil, err
		}
		outcome, _ := s.Submit(ctx)
		out := &SubmitOutput{}
		out.Body.Outcome = string(outcome)
		out.Body.Session = toHTTPSession(s.Snapshot())
		return out, nil
	})
}

func lookup(ctx context.Context, mgr *formcore.Manager, id string) (*formcore.Session, error) {
	user := auth.UserFromContext(ctx)
	s, err := mgr.Get(id, user.UID)
	if err != nil {
		return nil, mapFormError(err)
	}
	return s, nil
}

// verifiedActor refuses session creation for unverified accounts.
func verifiedActor(ctx context.Context) (formcore.Actor, error) {
	user := auth.UserFromContext(ctx)
	if !user.EmailVerified {
		return formcore.Actor{}, huma.Error403Forbidden("email not verified")
	}
	return formcore.Actor{
		ID:    user.UID,
		Email: user.Email,
		Admin: user.Admin,
	}, nil
}

func mapFormError(err error) error {
	switch {
	case errors.Is(err, formcore.ErrSessionNotFound):
		return huma.Error404NotFound("form session not found")
	case errors.Is(err, account.ErrNotFound):
		return huma.Error404NotFound("profile not found")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}

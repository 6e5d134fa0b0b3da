package form

import (
	"context"

	applog "github.com/renthub/profile-service/internal/platform/logging"
	"github.com/renthub/profile-service/internal/service/account"
	"go.uber.org/zap"
)

// SubmitOutcome classifies how a submission attempt ended.
type SubmitOutcome string

const (
	SubmitSuccess           SubmitOutcome = "success"
	SubmitValidationFailure SubmitOutcome = "validation_failure"
	SubmitRemoteFailure     SubmitOutcome = "remote_failure"
)

// Submit runs the full commit sequence: the display-name uniqueness check,
// the synchronous field validations, the required-field checks for the
// variant, then the profile update. Any failed step leaves the form
// editable and reports the class of failure.
func (s *Session) Submit(ctx context.Context) (SubmitOutcome, error) {
	name, settled, err := s.runNameCheck(ctx)
	if err != nil {
		return SubmitRemoteFailure, err
	}

	s.mu.Lock()
	if !settled || s.state.FullName != name {
		// The display name changed while its check was in flight; the
		// current value has no resolved verdict and must not reach the
		// backend. Mark it pending until the next check settles it.
		s.state.setValidity(FieldFullName, Pending)
		s.mu.Unlock()
		return SubmitValidationFailure, nil
	}
	if s.state.Validity(FieldFullName) != Valid {
		s.mu.Unlock()
		return SubmitValidationFailure, nil
	}
	if s.validatePhoneLocked() != Valid {
		s.mu.Unlock()
		return SubmitValidationFailure, nil
	}
	if s.Variant.RequirePhone && s.state.Phone == "" {
		s.state.setValidity(FieldPhone, Invalid)
		s.mu.Unlock()
		return SubmitValidationFailure, nil
	}
	if s.Variant.IncludeBirthDate {
		if s.state.BirthDate == nil || s.validateBirthDateLocked() != Valid {
			s.state.setValidity(FieldBirthDate, Invalid)
			s.mu.Unlock()
			return SubmitValidationFailure, nil
		}
	}
	if s.Variant.RequireAvatar && s.state.Avatar == "" {
		s.state.setValidity(FieldAvatar, Invalid)
		s.pushNoticeLocked(Notice{Level: NoticeError, Message: MsgImageRequired})
		s.mu.Unlock()
		return SubmitValidationFailure, nil
	}
	if !s.state.CommitEnabled(s.Variant) {
		s.mu.Unlock()
		return SubmitValidationFailure, nil
	}

	// The payload carries the exact name the uniqueness verdict applies
	// to; the lock has been held since that was asserted above.
	params := account.UpdateParams{
		ID:                s.profile.ID,
		FullName:          name,
		Phone:             s.state.Phone,
		Location:          s.state.Location,
		Bio:               s.state.Bio,
		Preference:        s.Variant.Preference,
		PreferenceEnabled: s.state.Preference,
	}
	if s.state.BirthDate != nil {
		bd := *s.state.BirthDate
		params.BirthDate = &bd
	}
	s.state.Loading = true
	s.mu.Unlock()

	updated, err := s.accounts.Update(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	if err != nil {
		applog.LogWarn(ctx, "profile update failed", zap.Error(err))
		s.pushNoticeLocked(errorNotice())
		return SubmitRemoteFailure, err
	}

	s.profile = updated
	s.pushNoticeLocked(infoNotice(MsgUpdated))
	return SubmitSuccess, nil
}

// TogglePreference flips the variant's preference flag. The backend is
// told first; the local value changes only once the call succeeds, so the
// form never shows a preference the backend does not hold.
func (s *Session) TogglePreference(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	id := s.profile.ID
	s.mu.Unlock()

	err := s.accounts.UpdatePreference(ctx, id, s.Variant.Preference, enabled)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		applog.LogWarn(ctx, "preference update failed", zap.Error(err))
		s.pushNoticeLocked(errorNotice())
		return err
	}
	s.state.Preference = enabled
	return nil
}

// ResendActivation asks the account backend to resend the activation
// email for the loaded profile. Only elevated actors may trigger it.
func (s *Session) ResendActivation(ctx context.Context) error {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	email := s.profile.Email
	s.state.Loading = true
	s.mu.Unlock()

	err := s.accounts.ResendActivation(ctx, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		applog.LogWarn(ctx, "activation resend failed", zap.Error(err))
		s.pushNoticeLocked(errorNotice())
		return err
	}
	s.pushNoticeLocked(infoNotice(MsgActivationSent))
	return nil
}

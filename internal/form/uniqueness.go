package form

import (
	"context"

	applog "github.com/renthub/profile-service/internal/platform/logging"
	"go.uber.org/zap"
)

// ValidateName runs the remote display-name uniqueness check for the
// current full-name value. The lock is released for the duration of the
// remote call; when the verdict arrives, it is applied only if the field
// still holds the exact value the check was issued for. Verdicts for
// superseded values are discarded without touching validity.
func (s *Session) ValidateName(ctx context.Context) error {
	_, _, err := s.runNameCheck(ctx)
	return err
}

// runNameCheck does the work of ValidateName and additionally reports
// which value the verdict applies to. settled is false when the field
// moved while the check was in flight, leaving the current value without
// a resolved verdict.
func (s *Session) runNameCheck(ctx context.Context) (name string, settled bool, err error) {
	s.mu.Lock()

	name = s.state.FullName
	if name == "" {
		s.state.setValidity(FieldFullName, Invalid)
		s.mu.Unlock()
		return name, true, nil
	}
	if s.profile != nil && name == s.profile.FullName {
		// Unchanged from the stored profile; the backend would reject
		// the name as taken by its own owner, so skip the call.
		s.state.setValidity(FieldFullName, Valid)
		s.mu.Unlock()
		return name, true, nil
	}

	prior := s.state.Validity(FieldFullName)
	s.state.setValidity(FieldFullName, Pending)
	s.state.pendingName = name
	s.mu.Unlock()

	taken, checkErr := s.accounts.CheckName(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FullName != name || s.state.pendingName != name {
		// The field moved on while the check was in flight.
		applog.LogInfo(ctx, "stale uniqueness verdict discarded",
			zap.String("checked", name),
			zap.String("current", s.state.FullName))
		return name, false, nil
	}
	s.state.pendingName = ""

	if checkErr != nil {
		applog.LogWarn(ctx, "uniqueness check failed", zap.Error(checkErr))
		s.state.setValidity(FieldFullName, prior)
		s.pushNoticeLocked(errorNotice())
		return name, true, checkErr
	}

	if taken {
		s.state.setValidity(FieldFullName, Invalid)
	} else {
		s.state.setValidity(FieldFullName, Valid)
	}
	return name, true, nil
}

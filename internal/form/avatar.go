package form

import (
	"context"

	applog "github.com/renthub/profile-service/internal/platform/logging"
	"go.uber.org/zap"
)

// UploadAvatar sends an image to the media host and, on success, applies
// the returned reference to the form state, the loaded profile, and — when
// the actor is editing their own profile — the actor's cached snapshot,
// all within a single critical section so no observer sees a partial
// propagation.
func (s *Session) UploadAvatar(ctx context.Context, filename string, data []byte) error {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	s.state.Upload = UploadInProgress
	s.state.Loading = true
	s.mu.Unlock()

	ref, err := s.uploader.Upload(ctx, filename, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	if err != nil {
		applog.LogWarn(ctx, "avatar upload failed", zap.Error(err))
		s.state.Upload = UploadFailed
		s.pushNoticeLocked(errorNotice())
		return err
	}
	if ref == "" {
		// The host accepted the request but produced no image. A prior
		// avatar stays in place and the phase settles on it; only with
		// nothing to fall back on does the upload read as failed.
		if s.state.Avatar != "" {
			s.state.Upload = UploadComplete
			return nil
		}
		s.state.Upload = UploadFailed
		s.pushNoticeLocked(errorNotice())
		return nil
	}

	s.state.Avatar = ref
	s.state.setValidity(FieldAvatar, Valid)
	s.profile.Avatar = ref
	if s.actor.ID == s.profile.ID {
		s.actor.Avatar = ref
	}
	s.state.Upload = UploadComplete
	return nil
}

package form

import (
	"errors"
	"sync"
	"time"

	"github.com/renthub/profile-service/internal/service/account"
	"github.com/renthub/profile-service/internal/service/media"
)

// Session errors
var (
	ErrNoProfile       = errors.New("no profile loaded")
	ErrSessionNotFound = errors.New("form session not found")
)

// Actor is the acting identity's cached snapshot. When the actor edits
// their own linked profile, avatar changes propagate into this copy in
// the same state transition as the profile update.
type Actor struct {
	ID     string
	Email  string
	Admin  bool
	Avatar string
}

// Session owns one editing session: the profile copy being edited, the
// acting identity, and the form state. All mutations go through the
// session's mutex; remote calls release it, and every response handler
// re-acquires it and re-checks what it is about to overwrite.
type Session struct {
	ID      string
	Variant Variant

	mu      sync.Mutex
	actor   Actor
	profile *account.Profile
	state   *State
	notices []Notice

	accounts account.Service
	uploader media.Uploader
	minAge   int
	now      func() time.Time
}

// FieldChanges carries one batch of user edits. Nil fields are untouched.
type FieldChanges struct {
	FullName  *string
	Phone     *string
	Location  *string
	Bio       *string
	BirthDate *time.Time
}

// ApplyFields mutates the form state field by field. Emptying the display
// name or phone clears that field's inline error, as typing does; setting
// a birth date validates it immediately.
func (s *Session) ApplyFields(changes FieldChanges) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if changes.FullName != nil {
		s.state.FullName = *changes.FullName
		// Any in-flight uniqueness verdict is now stale; clearing the
		// pending tag guarantees it will be discarded on arrival.
		s.state.pendingName = ""
		s.state.setValidity(FieldFullName, Valid)
	}
	if changes.Phone != nil {
		s.state.Phone = *changes.Phone
		if *changes.Phone == "" {
			s.state.setValidity(FieldPhone, Valid)
		}
	}
	if changes.Location != nil {
		s.state.Location = *changes.Location
	}
	if changes.Bio != nil {
		s.state.Bio = *changes.Bio
	}
	if changes.BirthDate != nil {
		bd := *changes.BirthDate
		s.state.BirthDate = &bd
		s.validateBirthDateLocked()
	}
}

// ValidatePhone runs the synchronous phone format check (blur).
func (s *Session) ValidatePhone() Validity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validatePhoneLocked()
}

func (s *Session) validatePhoneLocked() Validity {
	v := Invalid
	if ValidPhone(s.state.Phone) {
		v = Valid
	}
	s.state.setValidity(FieldPhone, v)
	return v
}

func (s *Session) validateBirthDateLocked() Validity {
	v := Invalid
	if ValidBirthDate(s.state.BirthDate, s.now(), s.minAge) {
		v = Valid
	}
	s.state.setValidity(FieldBirthDate, v)
	return v
}

// ActorSnapshot returns the acting identity's cached snapshot.
func (s *Session) ActorSnapshot() Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

// Snapshot is a point-in-time copy of the whole session for rendering.
type Snapshot struct {
	ID            string
	Variant       string
	Email         string
	FullName      string
	Phone         string
	Location      string
	Bio           string
	BirthDate     *time.Time
	Avatar        string
	Preference    bool
	Loading       bool
	Upload        UploadPhase
	Validity      map[Field]Validity
	CommitEnabled bool
	Notices       []Notice
}

// Snapshot returns a consistent copy of the session under one lock hold.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	validity := make(map[Field]Validity, len(s.state.validity))
	for f, v := range s.state.validity {
		validity[f] = v
	}
	notices := make([]Notice, len(s.notices))
	copy(notices, s.notices)

	snap := Snapshot{
		ID:            s.ID,
		Variant:       s.Variant.Name,
		FullName:      s.state.FullName,
		Phone:         s.state.Phone,
		Location:      s.state.Location,
		Bio:           s.state.Bio,
		Avatar:        s.state.Avatar,
		Preference:    s.state.Preference,
		Loading:       s.state.Loading,
		Upload:        s.state.Upload,
		Validity:      validity,
		CommitEnabled: s.state.CommitEnabled(s.Variant),
		Notices:       notices,
	}
	if s.profile != nil {
		snap.Email = s.profile.Email
	}
	if s.state.BirthDate != nil {
		bd := *s.state.BirthDate
		snap.BirthDate = &bd
	}
	return snap
}

func (s *Session) pushNoticeLocked(n Notice) {
	s.notices = append(s.notices, n)
}

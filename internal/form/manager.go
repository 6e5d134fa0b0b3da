package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	applog "github.com/renthub/profile-service/internal/platform/logging"
	"github.com/renthub/profile-service/internal/service/account"
	"github.com/renthub/profile-service/internal/service/media"
	"go.uber.org/zap"
)

// DefaultMinimumAge is the minimum whole-years age for birth dates.
const DefaultMinimumAge = 18

// Manager creates and tracks form sessions. Sessions are in-memory and
// keyed by a random ID; each is scoped to the actor that opened it.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	accounts account.Service
	uploader media.Uploader
	minAge   int
	now      func() time.Time
}

// NewManager builds a session manager over the given collaborators.
func NewManager(accounts account.Service, uploader media.Uploader, minimumAge int) *Manager {
	if minimumAge <= 0 {
		minimumAge = DefaultMinimumAge
	}
	return &Manager{
		sessions: make(map[string]*Session),
		accounts: accounts,
		uploader: uploader,
		minAge:   minimumAge,
		now:      time.Now,
	}
}

// OpenSettings starts an individual settings session over the actor's own
// profile.
func (m *Manager) OpenSettings(ctx context.Context, actor Actor) (*Session, error) {
	return m.open(ctx, actor, Individual, actor.ID)
}

// OpenOrganization starts an organizational session for the given account.
// An empty or unresolvable account ID is reported as not found rather than
// surfacing an upstream error shape.
func (m *Manager) OpenOrganization(ctx context.Context, actor Actor, orgID string) (*Session, error) {
	if orgID == "" {
		return nil, account.ErrNotFound
	}
	return m.open(ctx, actor, Organization, orgID)
}

func (m *Manager) open(ctx context.Context, actor Actor, v Variant, profileID string) (*Session, error) {
	profile, err := m.accounts.Get(ctx, profileID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, account.ErrNotFound
		}
		applog.LogError(ctx, "profile load failed", err)
		return nil, err
	}

	if actor.ID == profile.ID && actor.Avatar == "" {
		actor.Avatar = profile.Avatar
	}

	s := &Session{
		ID:       uuid.NewString(),
		Variant:  v,
		actor:    actor,
		profile:  profile,
		state:    newState(),
		accounts: m.accounts,
		uploader: m.uploader,
		minAge:   m.minAge,
		now:      m.now,
	}
	s.state.FullName = profile.FullName
	s.state.Phone = profile.Phone
	s.state.Location = profile.Location
	s.state.Bio = profile.Bio
	s.state.Avatar = profile.Avatar
	if profile.BirthDate != nil {
		bd := *profile.BirthDate
		s.state.BirthDate = &bd
	}
	switch v.Preference {
	case account.PreferencePayLater:
		s.state.Preference = profile.PayLater
	default:
		s.state.Preference = profile.EmailNotifications
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	applog.LogInfo(ctx, "form session opened",
		zap.String("session_id", s.ID),
		zap.String("variant", v.Name),
		zap.String("profile_id", profile.ID))
	return s, nil
}

// Get looks up a session by ID, scoped to the actor that opened it.
func (m *Manager) Get(id, actorID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.actor.ID != actorID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session.
func (m *Manager) Close(id, actorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.actor.ID != actorID {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

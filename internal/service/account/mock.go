package account

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Mock implements Service for unit tests. Zero value is not usable; create
// with NewMock. Error fields, when set, are returned by the matching method.
// Call counters let tests assert which collaborators were actually invoked.
type Mock struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	taken    map[string]bool

	GetErr    error
	CheckErr  error
	UpdateErr error
	PrefErr   error
	ResendErr error

	CheckNameCalls  int
	UpdateCalls     int
	PreferenceCalls int
	ResendCalls     int

	LastUpdate UpdateParams
}

// NewMock creates a new mock service.
func NewMock() *Mock {
	return &Mock{
		profiles: make(map[string]*Profile),
		taken:    make(map[string]bool),
	}
}

// Put seeds a profile.
func (m *Mock) Put(p *Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.ID] = &cp
}

// SetTaken marks a display name as already in use.
func (m *Mock) SetTaken(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taken[name] = true
}

func (m *Mock) Get(_ context.Context, id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Mock) CheckName(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckNameCalls++
	if m.CheckErr != nil {
		return false, m.CheckErr
	}
	return m.taken[strings.TrimSpace(name)], nil
}

func (m *Mock) Update(_ context.Context, params UpdateParams) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	m.LastUpdate = params
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	p, ok := m.profiles[params.ID]
	if !ok {
		return nil, ErrNotFound
	}
	p.FullName = params.FullName
	p.Phone = params.Phone
	p.Location = params.Location
	p.Bio = params.Bio
	if params.BirthDate != nil {
		bd := *params.BirthDate
		p.BirthDate = &bd
	}
	switch params.Preference {
	case PreferenceEmailNotifications:
		p.EmailNotifications = params.PreferenceEnabled
	case PreferencePayLater:
		p.PayLater = params.PreferenceEnabled
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *Mock) UpdatePreference(_ context.Context, id string, pref Preference, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PreferenceCalls++
	if m.PrefErr != nil {
		return m.PrefErr
	}
	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	switch pref {
	case PreferenceEmailNotifications:
		p.EmailNotifications = enabled
	case PreferencePayLater:
		p.PayLater = enabled
	}
	return nil
}

func (m *Mock) ResendActivation(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResendCalls++
	return m.ResendErr
}

// Compile-time interface check
var _ Service = (*Mock)(nil)

package account

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service errors
var (
	ErrNotFound = errors.New("account not found")
	ErrUpstream = errors.New("account upstream error")
)

// Preference identifies a per-account boolean preference flag.
type Preference string

const (
	// PreferenceEmailNotifications is the individual variant's toggle.
	PreferenceEmailNotifications Preference = "email_notifications"
	// PreferencePayLater is the organizational variant's toggle.
	PreferencePayLater Preference = "pay_later"
)

// Profile represents stored account data for either variant.
// Email is immutable after creation and only displayed.
type Profile struct {
	ID                 string
	FullName           string
	Email              string
	Phone              string
	Location           string
	Bio                string
	BirthDate          *time.Time
	Avatar             string
	EmailNotifications bool
	PayLater           bool
	Verified           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UpdateParams carries the commit payload. Only the mutable fields relevant
// to the editing variant are set; BirthDate stays nil for the organizational
// variant.
type UpdateParams struct {
	ID                string
	FullName          string
	Phone             string
	Location          string
	Bio               string
	BirthDate         *time.Time
	Preference        Preference
	PreferenceEnabled bool
}

// UpstreamError includes response metadata from the account backend.
type UpstreamError struct {
	Status int
	cause  error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "account upstream error"
	}
	if e.cause == nil {
		return fmt.Sprintf("account upstream error (status=%d)", e.Status)
	}
	return fmt.Sprintf("account upstream error (status=%d): %v", e.Status, e.cause)
}

// Unwrap enables errors.Is/As against sentinel service errors.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Service defines the remote account collaborators consumed by the form
// sessions. Every call is plain request/response; there are no retries here.
type Service interface {
	// Get loads the profile being edited. Returns ErrNotFound when the
	// identifier does not resolve.
	Get(ctx context.Context, id string) (*Profile, error)

	// CheckName reports whether a display name collides with an existing one.
	CheckName(ctx context.Context, name string) (taken bool, err error)

	// Update persists all edited fields atomically and returns the
	// acknowledged profile.
	Update(ctx context.Context, params UpdateParams) (*Profile, error)

	// UpdatePreference flips a single preference flag, independent of the
	// main commit flow.
	UpdatePreference(ctx context.Context, id string, pref Preference, enabled bool) error

	// ResendActivation requests a new activation notice for the address.
	ResendActivation(ctx context.Context, email string) error
}

package form

import (
	"time"
)

// Validity is the tri-state verdict for a validated field. Pending applies
// only to the display name while its remote uniqueness check is outstanding.
type Validity string

const (
	Valid   Validity = "valid"
	Invalid Validity = "invalid"
	Pending Validity = "pending"
)

// Field names a validated form field.
type Field string

const (
	FieldFullName  Field = "fullName"
	FieldPhone     Field = "phone"
	FieldBirthDate Field = "birthDate"
	FieldAvatar    Field = "avatar"
)

// UploadPhase is the avatar upload lifecycle state.
type UploadPhase string

const (
	UploadIdle       UploadPhase = "idle"
	UploadInProgress UploadPhase = "in_progress"
	UploadComplete   UploadPhase = "complete"
	UploadFailed     UploadPhase = "failed"
)

// State is the mutable record of current field values, per-field validity
// and upload/loading flags. It has exactly one writer, the owning Session,
// which serializes every mutation; a field's validity always follows the
// value that produced it.
type State struct {
	FullName   string
	Phone      string
	Location   string
	Bio        string
	BirthDate  *time.Time
	Avatar     string
	Preference bool

	Loading bool
	Upload  UploadPhase

	validity map[Field]Validity

	// pendingName is the display-name value the outstanding uniqueness
	// check was issued for. A resolving verdict is discarded unless the
	// field still holds exactly this value.
	pendingName string
}

func newState() *State {
	return &State{
		Upload:   UploadIdle,
		validity: make(map[Field]Validity),
	}
}

// Validity returns the current verdict for a field. Unchecked fields
// are valid.
func (st *State) Validity(f Field) Validity {
	if v, ok := st.validity[f]; ok {
		return v
	}
	return Valid
}

func (st *State) setValidity(f Field, v Validity) {
	st.validity[f] = v
}

// CommitEnabled reports whether the commit action is allowed: every
// required field valid, no field pending, no upload in flight, and an
// avatar present when the variant requires one.
func (st *State) CommitEnabled(v Variant) bool {
	for _, verdict := range st.validity {
		if verdict != Valid {
			return false
		}
	}
	if st.Loading || st.Upload == UploadInProgress {
		return false
	}
	if st.FullName == "" {
		return false
	}
	if v.RequirePhone && st.Phone == "" {
		return false
	}
	if v.IncludeBirthDate && st.BirthDate == nil {
		return false
	}
	if v.RequireAvatar && st.Avatar == "" {
		return false
	}
	return true
}

package form

import (
	"github.com/renthub/profile-service/internal/form"
	"github.com/renthub/profile-service/internal/platform/timeutil"
)

// Notice is a user-visible message attached to a form session.
type Notice struct {
	Level   string `json:"level"   doc:"Notice severity"  example:"info"  enum:"info,error"`
	Message string `json:"message" doc:"Notice text"      example:"settings updated"`
}

// FormSession is the rendered view of one editing session.
type FormSession struct {
	ID            string            `json:"id"            doc:"Session identifier"                example:"0b8fca21-4cbb-4d6e-9f1a-2f1f0a9c7712"`
	Variant       string            `json:"variant"       doc:"Form variant"                      example:"individual" enum:"individual,organization"`
	Email         string            `json:"email"         doc:"Account email (read only)"         example:"alice@example.com"`
	FullName      string            `json:"fullName"      doc:"Display name"                      example:"Alice Example"`
	Phone         string            `json:"phone"         doc:"Phone number (E.164)"              example:"+358401234567"`
	Location      string            `json:"location"      doc:"Free-form location"                example:"Helsinki"`
	Bio           string            `json:"bio"           doc:"Free-form description"             example:"Hello there"`
	BirthDate     *timeutil.Time    `json:"birthDate,omitempty" doc:"Birth date"                  example:"1990-06-01T00:00:00.000Z"`
	Avatar        string            `json:"avatar"        doc:"Avatar image reference"            example:"avatars/abc.png"`
	Preference    bool              `json:"preference"    doc:"Variant preference flag"           example:"true"`
	Loading       bool              `json:"loading"       doc:"A remote operation is in flight"   example:"false"`
	UploadPhase   string            `json:"uploadPhase"   doc:"Avatar upload lifecycle phase"     example:"idle" enum:"idle,in_progress,complete,failed"`
	Validity      map[string]string `json:"validity"      doc:"Per-field validation verdicts"`
	CommitEnabled bool              `json:"commitEnabled" doc:"Whether submission is allowed"     example:"true"`
	Notices       []Notice          `json:"notices"       doc:"Messages produced by form actions"`
}

func toHTTPSession(snap form.Snapshot) FormSession {
	validity := make(map[string]string, len(snap.Validity))
	for f, v := range snap.Validity {
		validity[string(f)] = string(v)
	}
	notices := make([]Notice, 0, len(snap.Notices))
	for _, n := range snap.Notices {
		notices = append(notices, Notice{Level: string(n.Level), Message: n.Message})
	}

	out := FormSession{
		ID:            snap.ID,
		Variant:       snap.Variant,
		Email:         snap.Email,
		FullName:      snap.FullName,
		Phone:         snap.Phone,
		Location:      snap.Location,
		Bio:           snap.Bio,
		Avatar:        snap.Avatar,
		Preference:    snap.Preference,
		Loading:       snap.Loading,
		UploadPhase:   string(snap.Upload),
		Validity:      validity,
		CommitEnabled: snap.CommitEnabled,
		Notices:       notices,
	}
	if snap.BirthDate != nil {
		out.BirthDate = &timeutil.Time{Time: *snap.BirthDate}
	}
	return out
}

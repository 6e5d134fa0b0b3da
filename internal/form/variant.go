package form

import (
	"github.com/renthub/profile-service/internal/service/account"
)

// Variant describes how the two profile-editing contexts differ: which
// optional fields are required and which preference flag the commit payload
// carries. The submission sequence itself is shared.
type Variant struct {
	Name             string
	RequirePhone     bool
	RequireAvatar    bool
	IncludeBirthDate bool
	Preference       account.Preference
}

// Individual is the personal settings form: birth date required,
// email-notification toggle, avatar optional.
var Individual = Variant{
	Name:             "individual",
	IncludeBirthDate: true,
	Preference:       account.PreferenceEmailNotifications,
}

// Organization is the organizational account form: phone and avatar
// required, pay-later toggle, no birth date.
var Organization = Variant{
	Name:          "organization",
	RequirePhone:  true,
	RequireAvatar: true,
	Preference:    account.PreferencePayLater,
}

package form

// OpenSettingsInput for POST /forms/settings (no body needed)
type OpenSettingsInput struct{}

// OpenOrganizationInput for POST /forms/organization
type OpenOrganizationInput struct {
	Org string `query:"org" doc:"Organization account identifier" example:"org-123"`
}

// SessionInput addresses an existing session.
type SessionInput struct {
	ID string `path:"id" doc:"Session identifier" example:"0b8fca21-4cbb-4d6e-9f1a-2f1f0a9c7712"`
}

// UpdateFieldsInput for PATCH /forms/{id}/fields. Only provided fields change.
type UpdateFieldsInput struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body struct {
		FullName  *string        `json:"fullName,omitempty"  maxLength:"100"               doc:"Display name"       example:"Alice Example"`
		Phone     *string        `json:"phone,omitempty"     maxLength:"20"                doc:"Phone (E.164)"      example:"+358401234567"`
		Location  *string        `json:"location,omitempty"  maxLength:"200"               doc:"Free-form location" example:"Helsinki"`
		Bio       *string        `json:"bio,omitempty"       maxLength:"2000"              doc:"Free-form description"`
		BirthDate *string        `json:"birthDate,omitempty" format:"date-time"           doc:"Birth date"         example:"1990-06-01T00:00:00Z"`
	}
}

// ValidateNameInput for POST /forms/{id}/name/validate (no body needed)
type ValidateNameInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

// UploadAvatarInput for POST /forms/{id}/avatar
type UploadAvatarInput struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body struct {
		Filename string `json:"filename" minLength:"1" maxLength:"255" required:"true" doc:"Original file name" example:"me.png"`
		Data     []byte `json:"data"                                   required:"true" doc:"Image bytes, base64 encoded"`
	}
}

// TogglePreferenceInput for POST /forms/{id}/preference
type TogglePreferenceInput struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body struct {
		Enabled bool `json:"enabled" doc:"New preference value" example:"true"`
	}
}

// ResendActivationInput for POST /forms/{id}/activation/resend (no body needed)
type ResendActivationInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

// SubmitInput for POST /forms/{id}/submit (no body needed)
type SubmitInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

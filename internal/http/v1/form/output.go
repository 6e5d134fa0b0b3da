package form

// OpenOutput for POST /forms/settings and /forms/organization (201 Created)
type OpenOutput struct {
	Location string `header:"Location" doc:"URL of the created session"`
	Body     FormSession
}

// SessionOutput carries the current session view.
type SessionOutput struct {
	Body FormSession
}

// SubmitOutput for POST /forms/{id}/submit
type SubmitOutput struct {
	Body struct {
		Outcome string      `json:"outcome" doc:"How the submission ended" example:"success" enum:"success,validation_failure,remote_failure"`
		Session FormSession `json:"session" doc:"Session state after the attempt"`
	}
}

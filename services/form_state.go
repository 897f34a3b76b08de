package services

import "invoice-dashboard/utils"

// FormState is handed back to a form that must be shown again: inline field
// errors and an optional summary message.
type FormState struct {
	Errors  utils.FieldErrors `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Outcome of a form submission. When RedirectTo is set the caller leaves the
// form and State is meaningless.
type Outcome struct {
	State      FormState
	RedirectTo string
}

func (o Outcome) Redirected() bool {
	return o.RedirectTo != ""
}

func redirect(path string) Outcome {
	return Outcome{RedirectTo: path}
}

func redisplay(state FormState) Outcome {
	return Outcome{State: state}
}

// Package contact implements the public contact form.
package contact

import (
	"context"

	"github.com/vbonduro/portfolio/internal/apiclient"
	"github.com/vbonduro/portfolio/internal/domain"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSending Status = "sending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	msgSendFailed = "Failed to send message"
	msgFallback   = "Something went wrong"
)

// sender is the subset of apiclient.Client the form requires.
type sender interface {
	SubmitContact(ctx context.Context, in domain.ContactInput) error
}

// Form is the state of one contact form. The zero value is an idle, empty form.
type Form struct {
	Name    string
	Email   string
	Message string
	Status  Status
	Error   string
}

// Input builds the payload from exactly the three form fields.
func (f *Form) Input() domain.ContactInput {
	return domain.ContactInput{Name: f.Name, Email: f.Email, Message: f.Message}
}

// Submit posts the form. On success the fields are cleared and the status is
// StatusSuccess; on failure the fields are kept and Error carries a non-empty
// message.
func (f *Form) Submit(ctx context.Context, s sender) {
	f.Status = StatusSending
	f.Error = ""

	if err := s.SubmitContact(ctx, f.Input()); err != nil {
		f.Status = StatusError
		f.Error = errorMessage(err)
		return
	}

	*f = Form{Status: StatusSuccess}
}

func (f *Form) Idle() bool    { return f.Status == "" || f.Status == StatusIdle }
func (f *Form) Sending() bool { return f.Status == StatusSending }
func (f *Form) Success() bool { return f.Status == StatusSuccess }
func (f *Form) Failed() bool  { return f.Status == StatusError }

func errorMessage(err error) string {
	if apiclient.StatusCode(err) != 0 {
		return msgSendFailed
	}
	return msgFallback
}

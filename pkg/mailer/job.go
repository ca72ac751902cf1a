package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tpl "github.com/a704/dodream-backend/pkg/mailer/templates"
)

var (
	// ErrNoRecipient is returned for jobs without a usable To address.
	ErrNoRecipient = errors.New("email job has no recipient")
	// ErrInvalidJob marks jobs that can never be sent as queued.
	ErrInvalidJob = errors.New("invalid email job")
)

// EmailJob is the JSON message on the email queue. A job names a template
// and its data, or carries a ready Subject plus Text and/or HTML. A Subject
// set on a template job overrides the rendered one.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
}

// Prepare turns a job into subject, text and html bodies. Template jobs are
// rendered; plain jobs are passed through.
func Prepare(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("%w: missing subject or body", ErrInvalidJob)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	data := job.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Email"]; !ok {
		data["Email"] = job.To
	}
	subject, text, html, err = tpl.Render(job.Template, data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: render %s: %v", ErrInvalidJob, job.Template, err)
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}

// Deliver prepares the job and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := Prepare(job)
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}

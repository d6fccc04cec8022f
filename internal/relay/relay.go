// Package relay forwards submitted forms to a third-party form relay, an
// email inbox, or nowhere at all.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/wolfman30/primer-realty/internal/notify"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// ErrNotConfigured is returned when the relay has no destination.
var ErrNotConfigured = errors.New("relay: endpoint not configured")

// StatusError reports a non-2xx answer from the relay endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay: unexpected status %d", e.StatusCode)
}

// Form is an ordered list of fields, appended in the order the relay should
// present them.
type Form struct {
	Kind   string
	fields []notify.Field
}

// NewForm starts an empty form of the given kind ("booking", "contact", ...).
func NewForm(kind string) *Form {
	return &Form{Kind: kind}
}

// Add appends a field. Repeated names are kept.
func (f *Form) Add(name, value string) *Form {
	f.fields = append(f.fields, notify.Field{Name: name, Value: value})
	return f
}

// Get returns the first value for name.
func (f *Form) Get(name string) string {
	for _, fld := range f.fields {
		if fld.Name == name {
			return fld.Value
		}
	}
	return ""
}

// Fields returns a copy of the fields in order.
func (f *Form) Fields() []notify.Field {
	out := make([]notify.Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Encode renders the form as application/x-www-form-urlencoded, keeping
// field order.
func (f *Form) Encode() string {
	parts := make([]string, 0, len(f.fields))
	for _, fld := range f.fields {
		parts = append(parts, url.QueryEscape(fld.Name)+"="+url.QueryEscape(fld.Value))
	}
	return strings.Join(parts, "&")
}

// Relay delivers a form. Any error means the submission did not go through
// and may be retried.
type Relay interface {
	Submit(ctx context.Context, form *Form) error
}

// EmailRelay delivers forms as digest emails.
type EmailRelay struct {
	sender notify.EmailSender
	to     string
}

// NewEmailRelay sends every form to the inbox at to.
func NewEmailRelay(sender notify.EmailSender, to string) *EmailRelay {
	return &EmailRelay{sender: sender, to: to}
}

func (r *EmailRelay) Submit(ctx context.Context, form *Form) error {
	if r.sender == nil || r.to == "" {
		return ErrNotConfigured
	}
	subject := form.Get("_subject")
	if subject == "" {
		subject = "New " + form.Kind + " submission"
	}
	msg := notify.FormDigest(r.to, subject, form.Get("_replyto"), form.fields)
	if err := r.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("relay: email: %w", err)
	}
	return nil
}

// Stub accepts every form and only logs it.
type Stub struct {
	logger *logging.Logger
}

func NewStub(logger *logging.Logger) *Stub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stub{logger: logger}
}

func (s *Stub) Submit(_ context.Context, form *Form) error {
	s.logger.Info("stub relay: would submit form",
		"kind", form.Kind,
		"subject", form.Get("_subject"),
		"fields", len(form.fields),
	)
	return nil
}

var (
	_ Relay = (*FormspreeClient)(nil)
	_ Relay = (*EmailRelay)(nil)
	_ Relay = (*Stub)(nil)
)

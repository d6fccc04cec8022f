// Package newsletter records newsletter signups and sends the welcome email.
package newsletter

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/notify"
	"github.com/wolfman30/primer-realty/internal/validation"
	"github.com/wolfman30/primer-realty/internal/visitor"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// StorageKey holds the visitor's subscribed flag.
const StorageKey = "primer_newsletter_subscribed"

type Service struct {
	store  kvstore.Store
	sender notify.EmailSender
	logger *logging.Logger
}

// NewService creates the signup service. sender may be nil, in which case
// no welcome email goes out.
func NewService(store kvstore.Store, sender notify.EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, sender: sender, logger: logger}
}

// Subscribe validates email, sets the flag and sends the welcome email. It
// reports whether the visitor was already subscribed; repeat signups send
// nothing. A failed email is logged and does not undo the signup.
func (s *Service) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	errs := &validation.Errors{}
	if errs.Required("email", email) && !validation.IsEmail(email) {
		errs.Add("email", "Please enter a valid email address")
	}
	if err := errs.Err(); err != nil {
		return false, err
	}

	already, err := s.Subscribed(ctx)
	if err != nil {
		return false, err
	}
	if already {
		return true, nil
	}
	if err := kvstore.SetJSON(ctx, visitor.Scope(ctx, s.store), StorageKey, true); err != nil {
		return false, fmt.Errorf("newsletter: save: %w", err)
	}

	if s.sender != nil {
		if err := s.sender.Send(ctx, notify.NewsletterWelcome(email)); err != nil {
			s.logger.Warn("newsletter welcome email failed", "error", err)
		}
	}
	return false, nil
}

// Subscribed reports the visitor's flag.
func (s *Service) Subscribed(ctx context.Context) (bool, error) {
	var subscribed bool
	if _, err := kvstore.GetJSON(ctx, visitor.Scope(ctx, s.store), StorageKey, &subscribed); err != nil {
		return false, fmt.Errorf("newsletter: load: %w", err)
	}
	return subscribed, nil
}

// Unsubscribe clears the flag.
func (s *Service) Unsubscribe(ctx context.Context) error {
	if err := visitor.Scope(ctx, s.store).Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("newsletter: clear: %w", err)
	}
	return nil
}

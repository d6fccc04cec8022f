// Package inquiry forwards viewing requests and contact messages to the form
// relay.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/primer-realty/internal/catalog"
	"github.com/wolfman30/primer-realty/internal/kvstore"
	"github.com/wolfman30/primer-realty/internal/relay"
	"github.com/wolfman30/primer-realty/internal/validation"
	"github.com/wolfman30/primer-realty/internal/visitor"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// ViewingRequestsKey holds the visitor's past viewing requests.
const ViewingRequestsKey = "primer_viewing_requests"

// ErrDeliveryFailed wraps relay failures. The same request may be retried.
var ErrDeliveryFailed = errors.New("inquiry: delivery failed")

// ViewingRequest asks for a showing of one listing.
type ViewingRequest struct {
	PropertyID    int       `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PreferredDate string    `json:"preferredDate,omitempty"`
	Message       string    `json:"message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ContactMessage is the general contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// PropertyLookup resolves listing ids.
type PropertyLookup interface {
	FindByID(id int) (catalog.Property, error)
}

type Service struct {
	store      kvstore.Store
	relay      relay.Relay
	properties PropertyLookup
	logger     *logging.Logger
	now        func() time.Time
}

func NewService(store kvstore.Store, r relay.Relay, properties PropertyLookup, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, relay: r, properties: properties, logger: logger, now: time.Now}
}

// RequestViewing validates req, forwards it and appends it to the visitor's
// history. Nothing is stored when delivery fails.
func (s *Service) RequestViewing(ctx context.Context, req ViewingRequest) (ViewingRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.PreferredDate = strings.TrimSpace(req.PreferredDate)
	req.Message = strings.TrimSpace(req.Message)
	now := s.now()

	errs := &validation.Errors{}
	if validation.Blank(req.Name) {
		errs.Add("name", "Please enter your name")
	}
	if !validation.IsEmail(req.Email) {
		errs.Add("email", "Please enter a valid email address")
	}
	if validation.Blank(req.Phone) {
		errs.Add("phone", "Please enter your phone number")
	}
	if req.PreferredDate != "" {
		day, err := time.ParseInLocation("2006-01-02", req.PreferredDate, now.Location())
		y, m, d := now.Date()
		tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
		if err != nil || day.Before(tomorrow) {
			errs.Add("preferredDate", "Please choose a date from tomorrow onwards")
		}
	}
	if err := errs.Err(); err != nil {
		return ViewingRequest{}, err
	}

	prop, err := s.properties.FindByID(req.PropertyID)
	if err != nil {
		return ViewingRequest{}, fmt.Errorf("inquiry: viewing %d: %w", req.PropertyID, err)
	}
	req.PropertyTitle = prop.Title
	req.Timestamp = now.UTC()

	form := relay.NewForm("viewing").
		Add("_subject", "Viewing Request: "+prop.Title).
		Add("property_id", strconv.Itoa(prop.ID)).
		Add("property_title", prop.Title).
		Add("property_address", prop.Address).
		Add("name", req.Name).
		Add("email", req.Email).
		Add("phone", req.Phone).
		Add("preferred_date", req.PreferredDate).
		Add("message", req.Message).
		Add("_replyto", req.Email).
		Add("timestamp", req.Timestamp.Format(time.RFC3339))
	if err := s.relay.Submit(ctx, form); err != nil {
		return ViewingRequest{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	scoped := visitor.Scope(ctx, s.store)
	history := []ViewingRequest{}
	if _, err := kvstore.GetJSON(ctx, scoped, ViewingRequestsKey, &history); err != nil {
		s.logger.Warn("failed to load viewing history", "error", err)
		history = []ViewingRequest{}
	}
	history = append(history, req)
	if err := kvstore.SetJSON(ctx, scoped, ViewingRequestsKey, history); err != nil {
		s.logger.Warn("failed to store viewing request", "property_id", req.PropertyID, "error", err)
	}
	return req, nil
}

// ViewingRequests lists the visitor's requests, oldest first.
func (s *Service) ViewingRequests(ctx context.Context) ([]ViewingRequest, error) {
	history := []ViewingRequest{}
	if _, err := kvstore.GetJSON(ctx, visitor.Scope(ctx, s.store), ViewingRequestsKey, &history); err != nil {
		return nil, fmt.Errorf("inquiry: load viewings: %w", err)
	}
	return history, nil
}

// SendContact validates and forwards a contact message.
func (s *Service) SendContact(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	errs := &validation.Errors{}
	if validation.Blank(msg.Name) {
		errs.Add("name", "Please enter your full name")
	}
	if !validation.IsEmail(msg.Email) {
		errs.Add("email", "Please enter a valid email address")
	}
	if validation.Blank(msg.Subject) {
		errs.Add("subject", "Please select a subject")
	}
	if validation.Blank(msg.Message) {
		errs.Add("message", "Please enter your message")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	form := relay.NewForm("contact").
		Add("_subject", "Contact: "+msg.Subject).
		Add("name", msg.Name).
		Add("email", msg.Email).
		Add("phone", msg.Phone).
		Add("subject", msg.Subject).
		Add("message", msg.Message).
		Add("_replyto", msg.Email).
		Add("submission_date", s.now().UTC().Format(time.RFC3339))
	if err := s.relay.Submit(ctx, form); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}

package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/primer-realty/internal/relay"
	"github.com/wolfman30/primer-realty/internal/validation"
)

var tracer = otel.Tracer("primer.internal.booking")

// FormKind labels booking forms for relays and metrics.
const FormKind = "booking"

// BuildForm flattens a state into the relay form, in the order the relay
// inbox shows the fields.
func BuildForm(s State, now time.Time) *relay.Form {
	svc, _ := s.Service()
	form := relay.NewForm(FormKind).
		Add("_subject", "New Booking: "+s.Reference).
		Add("booking_reference", s.Reference).
		Add("service_type", svc.Name).
		Add("service_id", svc.ID)
	for _, q := range svc.Questions {
		if v, ok := s.Answers[q.ID]; ok {
			form.Add(q.ID, v)
		}
	}
	n := 0
	for _, id := range s.Addons {
		a, ok := svc.Addon(id)
		if !ok {
			continue
		}
		n++
		form.Add("addon_"+strconv.Itoa(n), a.Name+" - "+a.Description)
	}
	c := s.Contact
	form.Add("date", s.Date).
		Add("time", s.Time).
		Add("fullName", c.FullName).
		Add("email", c.Email).
		Add("phone", c.Phone).
		Add("address", c.Address).
		Add("city", c.City).
		Add("state", c.State).
		Add("zipCode", c.ZipCode).
		Add("specialInstructions", c.SpecialInstructions).
		Add("pricing", PricingNote).
		Add("_replyto", c.Email).
		Add("submission_date", now.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	return form
}

// Submit posts a reviewed booking. Terms must be accepted and every step is
// validated again. On a relay failure the returned state is s unchanged and
// the error is a *SubmissionError.
func Submit(ctx context.Context, s State, acceptTerms bool, r relay.Relay, now time.Time) (State, error) {
	ctx, span := tracer.Start(ctx, "booking.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.reference", s.Reference),
		attribute.String("booking.service", s.ServiceID),
	)

	if s.Step == StepSubmitted {
		return s, ErrAlreadySubmitted
	}
	if s.Step != StepReview {
		return s, fmt.Errorf("%w: on %s, need %s", ErrWrongStep, s.Step, StepReview)
	}

	errs := &validation.Errors{}
	if !acceptTerms {
		errs.Add("terms", "Please agree to the terms and conditions")
	}
	for step := StepServiceSelect; step < StepReview; step++ {
		errs.Merge(ValidateStep(s, step, now))
	}
	if !errs.Empty() {
		span.SetStatus(codes.Error, "invalid")
		return s, errs
	}

	if err := r.Submit(ctx, BuildForm(s, now)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay failed")
		return s, &SubmissionError{Reference: s.Reference, Err: err}
	}

	next := s.clone()
	next.Step = StepSubmitted
	next.TermsAccepted = true
	at := now.UTC()
	next.SubmittedAt = &at
	return next, nil
}

package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/primer-realty/internal/validation"
)

// DateLayout is the wire format of State.Date.
const DateLayout = "2006-01-02"

func editable(s State, step Step) error {
	if s.Step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	if s.Step != step {
		return fmt.Errorf("%w: on %s, need %s", ErrWrongStep, s.Step, step)
	}
	return nil
}

// SelectService picks the service on the first step. Choosing a different
// service drops the answers and add-ons of the previous one.
func SelectService(s State, serviceID string) (State, error) {
	if err := editable(s, StepServiceSelect); err != nil {
		return s, err
	}
	if _, ok := LookupService(serviceID); !ok {
		errs := &validation.Errors{}
		errs.Add("serviceId", "Please select a service")
		return s, errs
	}
	next := s.clone()
	if next.ServiceID != serviceID {
		next.Answers = map[string]string{}
		next.Addons = []string{}
	}
	next.ServiceID = serviceID
	return next, nil
}

// SetAnswers replaces the service-question answers. Keys that are not
// questions of the selected service are dropped.
func SetAnswers(s State, answers map[string]string) (State, error) {
	if err := editable(s, StepServiceDetails); err != nil {
		return s, err
	}
	svc, _ := s.Service()
	next := s.clone()
	next.Answers = map[string]string{}
	for _, q := range svc.Questions {
		if v, ok := answers[q.ID]; ok {
			next.Answers[q.ID] = strings.TrimSpace(v)
		}
	}
	return next, nil
}

// SetAddons replaces the selected add-ons, dropping duplicates.
func SetAddons(s State, ids []string) (State, error) {
	if err := editable(s, StepAddons); err != nil {
		return s, err
	}
	next := s.clone()
	next.Addons = []string{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		next.Addons = append(next.Addons, id)
	}
	return next, nil
}

// ToggleAddon adds id when absent and removes it when present.
func ToggleAddon(s State, id string) (State, error) {
	if err := editable(s, StepAddons); err != nil {
		return s, err
	}
	next := s.clone()
	for i, a := range next.Addons {
		if a == id {
			next.Addons = append(next.Addons[:i], next.Addons[i+1:]...)
			return next, nil
		}
	}
	next.Addons = append(next.Addons, id)
	return next, nil
}

// SetSchedule stores the chosen date and time slot.
func SetSchedule(s State, date, slot string) (State, error) {
	if err := editable(s, StepDateTime); err != nil {
		return s, err
	}
	next := s.clone()
	next.Date = strings.TrimSpace(date)
	next.Time = strings.TrimSpace(slot)
	return next, nil
}

// SetContact stores the contact block.
func SetContact(s State, c Contact) (State, error) {
	if err := editable(s, StepContact); err != nil {
		return s, err
	}
	next := s.clone()
	next.Contact = Contact{
		FullName:            strings.TrimSpace(c.FullName),
		Email:               strings.TrimSpace(c.Email),
		Phone:               strings.TrimSpace(c.Phone),
		Address:             strings.TrimSpace(c.Address),
		City:                strings.TrimSpace(c.City),
		State:               strings.TrimSpace(c.State),
		ZipCode:             strings.TrimSpace(c.ZipCode),
		SpecialInstructions: strings.TrimSpace(c.SpecialInstructions),
	}
	return next, nil
}

// Next validates the current step and moves to the following one. On a
// validation failure the state is returned unchanged with *validation.Errors.
// Review is left only through Submit.
func Next(s State, now time.Time) (State, error) {
	switch s.Step {
	case StepSubmitted:
		return s, ErrAlreadySubmitted
	case StepReview:
		return s, fmt.Errorf("%w: review is completed by submitting", ErrWrongStep)
	}
	if errs := ValidateStep(s, s.Step, now); !errs.Empty() {
		return s, errs
	}
	next := s.clone()
	next.Step++
	return next, nil
}

// GoTo moves back to an earlier step, keeping everything entered so far.
// Moving forward is only possible through Next.
func GoTo(s State, step Step) (State, error) {
	if s.Step == StepSubmitted {
		return s, ErrAlreadySubmitted
	}
	if !step.Valid() || step > s.Step {
		return s, fmt.Errorf("%w: cannot jump from %s to %s", ErrWrongStep, s.Step, step)
	}
	next := s.clone()
	next.Step = step
	return next, nil
}

// Back moves one step back. It is a no-op on the first step.
func Back(s State) (State, error) {
	if s.Step <= StepServiceSelect {
		return s, nil
	}
	return GoTo(s, s.Step-1)
}

// Reset discards everything and starts over with a fresh reference.
func Reset(reference string) State {
	return NewState(reference)
}

// ValidateStep checks the data belonging to step. It never looks at the
// current step, so a submission can re-check every step at once.
func ValidateStep(s State, step Step, now time.Time) *validation.Errors {
	errs := &validation.Errors{}
	switch step {
	case StepServiceSelect:
		if _, ok := s.Service(); !ok {
			errs.Add("serviceId", "Please select a service")
		}
	case StepServiceDetails:
		svc, ok := s.Service()
		if !ok {
			errs.Add("serviceId", "Please select a service")
			break
		}
		for _, q := range svc.Questions {
			validateAnswer(errs, q, s.Answers[q.ID])
		}
	case StepAddons:
		svc, _ := s.Service()
		for _, id := range s.Addons {
			if _, ok := svc.Addon(id); !ok {
				errs.Add("addons", fmt.Sprintf("Unknown add-on %q", id))
			}
		}
	case StepDateTime:
		validateSchedule(errs, s.Date, s.Time, now)
	case StepContact:
		validateContact(errs, s.Contact)
	}
	return errs
}

func validateAnswer(errs *validation.Errors, q Question, v string) {
	field := "answers." + q.ID
	if validation.Blank(v) {
		if q.Required {
			errs.Add(field, "This field is required")
		}
		return
	}
	switch q.Kind {
	case KindSelect:
		for _, o := range q.Options {
			if o.Value == v {
				return
			}
		}
		errs.Add(field, "Please choose a valid option")
	case KindNumber:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs.Add(field, "Please enter a number")
			return
		}
		if q.Min != nil && n < *q.Min {
			errs.Add(field, fmt.Sprintf("Must be at least %s", formatBound(*q.Min)))
		}
		if q.Max != nil && n > *q.Max {
			errs.Add(field, fmt.Sprintf("Must be at most %s", formatBound(*q.Max)))
		}
	}
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func validateSchedule(errs *validation.Errors, date, slot string, now time.Time) {
	if errs.Required("date", date) {
		day, err := time.ParseInLocation(DateLayout, date, now.Location())
		switch {
		case err != nil:
			errs.Add("date", "Please choose a valid date")
		case day.Before(startOfDay(now)):
			errs.Add("date", "Please choose a date that is not in the past")
		}
	}
	if errs.Required("time", slot) && !isTimeSlot(slot) {
		errs.Add("time", "Please choose an available time slot")
	}
}

func validateContact(errs *validation.Errors, c Contact) {
	errs.Required("fullName", c.FullName)
	if errs.Required("email", c.Email) && !validation.IsEmail(c.Email) {
		errs.Add("email", "Please enter a valid email address")
	}
	if errs.Required("phone", c.Phone) && !validation.IsPhone(c.Phone) {
		errs.Add("phone", "Please enter a valid phone number")
	}
	errs.Required("address", c.Address)
	errs.Required("city", c.City)
	errs.Required("state", c.State)
	errs.Required("zipCode", c.ZipCode)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package booking

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/primer-realty/internal/observability/metrics"
	"github.com/wolfman30/primer-realty/internal/relay"
	"github.com/wolfman30/primer-realty/internal/validation"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// Transition is a pure update applied to a loaded session.
type Transition func(State, time.Time) (State, error)

// Wizard runs the wizard for stored sessions. Updates on the same session
// never overlap; a contender fails fast instead of waiting.
type Wizard struct {
	sessions *SessionStore
	relay    relay.Relay
	recorder SubmissionRecorder
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	locks    *sessionLocks
	now      func() time.Time
	newRef   ReferenceFunc
}

// WizardOption customizes a Wizard.
type WizardOption func(*Wizard)

// WithRecorder logs successful submissions.
func WithRecorder(r SubmissionRecorder) WizardOption {
	return func(s *Wizard) { s.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) WizardOption {
	return func(s *Wizard) { s.now = now }
}

// WithReferences replaces the reference generator.
func WithReferences(fn ReferenceFunc) WizardOption {
	return func(s *Wizard) { s.newRef = fn }
}

func NewWizard(sessions *SessionStore, r relay.Relay, m *metrics.BookingMetrics, logger *logging.Logger, opts ...WizardOption) *Wizard {
	if logger == nil {
		logger = logging.Default()
	}
	svc := &Wizard{
		sessions: sessions,
		relay:    r,
		metrics:  m,
		logger:   logger,
		locks:    newSessionLocks(),
		now:      time.Now,
		newRef:   NewReference,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Now is the service clock.
func (s *Wizard) Now() time.Time { return s.now() }

// Start creates a session at ServiceSelect.
func (s *Wizard) Start(ctx context.Context) (Session, error) {
	sess := Session{ID: newSessionID(), State: NewState(s.newRef()), UpdatedAt: s.now().UTC()}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	s.logger.Debug("booking session started", "session_id", sess.ID, "reference", sess.State.Reference)
	return sess, nil
}

func (s *Wizard) Get(ctx context.Context, id string) (Session, error) {
	return s.sessions.Get(ctx, id)
}

// Apply loads the session, runs fn and saves the result when fn succeeds.
// On error the stored session is untouched and returned as is.
func (s *Wizard) Apply(ctx context.Context, id, name string, fn Transition) (Session, error) {
	release, err := s.locks.acquire(id, name)
	if err != nil {
		return Session{}, err
	}
	defer release()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	from := sess.State.Step
	next, err := fn(sess.State, s.now())
	if err != nil {
		s.metrics.ObserveTransition(from.String(), outcome(err))
		return sess, err
	}
	sess.State = next
	sess.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, sess, from); err != nil {
		return Session{}, err
	}
	s.metrics.ObserveTransition(from.String(), "ok")
	return sess, nil
}

// save stores sess. A booking the relay already accepted is Submitted even
// when the store is down: the write is retried once, then only logged, so a
// client retry cannot post the same booking again.
func (s *Wizard) save(ctx context.Context, sess Session, from Step) error {
	err := s.sessions.Save(ctx, sess)
	if err == nil || sess.State.Step != StepSubmitted || from == StepSubmitted {
		return err
	}
	if err = s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("failed to save submitted booking session",
			"session_id", sess.ID, "reference", sess.State.Reference, "error", err)
	}
	return nil
}

// Submit posts the session's booking. A second submit while the first is
// still posting fails with ErrSubmissionInFlight.
func (s *Wizard) Submit(ctx context.Context, id string, acceptTerms bool) (Session, error) {
	sess, err := s.Apply(ctx, id, opSubmit, func(st State, now time.Time) (State, error) {
		return Submit(ctx, st, acceptTerms, s.relay, now)
	})
	if err != nil {
		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			s.logger.Warn("booking submission failed", "session_id", id, "reference", subErr.Reference, "error", subErr.Err)
		}
		return sess, err
	}
	s.logger.Info("booking submitted", "session_id", id, "reference", sess.State.Reference, "service", sess.State.ServiceID)
	s.record(ctx, sess.State)
	return sess, nil
}

func (s *Wizard) record(ctx context.Context, st State) {
	if s.recorder == nil {
		return
	}
	rec, err := RecordFor(st)
	if err == nil {
		err = s.recorder.Record(ctx, rec)
	}
	if err != nil {
		s.logger.Error("failed to record booking submission", "reference", st.Reference, "error", err)
	}
}

// Reset starts the session over with a fresh reference.
func (s *Wizard) Reset(ctx context.Context, id string) (Session, error) {
	return s.Apply(ctx, id, "reset", func(State, time.Time) (State, error) {
		return Reset(s.newRef()), nil
	})
}

// Cancel discards the session.
func (s *Wizard) Cancel(ctx context.Context, id string) error {
	release, err := s.locks.acquire(id, "cancel")
	if err != nil {
		return err
	}
	defer release()
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

func outcome(err error) string {
	var subErr *SubmissionError
	switch {
	case errors.Is(err, validation.ErrInvalid):
		return "invalid"
	case errors.As(err, &subErr):
		return "relay_failed"
	case errors.Is(err, ErrWrongStep), errors.Is(err, ErrAlreadySubmitted):
		return "rejected"
	default:
		return "error"
	}
}

package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/primer-realty/internal/http/httpx"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// SubmissionLister reads back logged submissions for operators.
type SubmissionLister interface {
	Recent(ctx context.Context, limit int) ([]SubmissionRecord, error)
}

// Handler exposes the wizard over HTTP.
type Handler struct {
	wizard *Wizard
	log    SubmissionLister
	logger *logging.Logger
}

// NewHandler creates the booking handler. log may be nil when no database
// is configured.
func NewHandler(wizard *Wizard, log SubmissionLister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{wizard: wizard, log: log, logger: logger}
}

// Routes returns the public routes, mounted at /api/booking.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/services", h.ListServices)
	r.Get("/time-slots", h.ListTimeSlots)
	r.Get("/calendar", h.Calendar)
	r.Post("/sessions", h.StartSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.CancelSession)
		r.Put("/service", h.SelectService)
		r.Put("/details", h.SetDetails)
		r.Put("/addons", h.SetAddons)
		r.Post("/addons/{addonID}/toggle", h.ToggleAddon)
		r.Put("/schedule", h.SetSchedule)
		r.Put("/contact", h.SetContact)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/goto", h.GoTo)
		r.Post("/submit", h.Submit)
		r.Post("/reset", h.Reset)
	})
	return r
}

// AdminRoutes lists logged submissions, mounted at /admin/bookings.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListSubmissions)
	return r
}

// SessionResponse is a session plus what a client needs to render it.
type SessionResponse struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	StepIndex int       `json:"step_index"`
	Progress  int       `json:"progress"`
	Service   *Service  `json:"service,omitempty"`
	Summary   *Summary  `json:"summary,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSessionResponse(sess Session) SessionResponse {
	resp := SessionResponse{
		ID:        sess.ID,
		State:     sess.State,
		StepIndex: int(sess.State.Step),
		Progress:  sess.State.Progress(),
		UpdatedAt: sess.UpdatedAt,
	}
	if svc, ok := sess.State.Service(); ok {
		resp.Service = &svc
	}
	if sess.State.Step >= StepReview {
		sum := sess.State.Summarize()
		resp.Summary = &sum
	}
	return resp
}

// GET /api/booking/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"services": Services()})
}

// GET /api/booking/time-slots
func (h *Handler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"time_slots": TimeSlots})
}

// Calendar renders one month. The selected date is highlighted when a
// session is given.
// GET /api/booking/calendar?month=YYYY-MM&session=
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.wizard.Now()
	year, month, ok := ParseMonth(r.URL.Query().Get("month"), now)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}
	selected := ""
	if id := r.URL.Query().Get("session"); id != "" {
		sess, err := h.wizard.Get(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		selected = sess.State.Date
	}
	m := BuildMonth(year, month, now, selected)
	py, pm := m.Prev()
	ny, nm := m.Next()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"calendar": m,
		"prev":     time.Date(py, pm, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		"next":     time.Date(ny, nm, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
	})
}

// POST /api/booking/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.Start(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// GET /api/booking/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

// DELETE /api/booking/sessions/{sessionID}
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	if err := h.wizard.Cancel(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/booking/sessions/{sessionID}/service {"serviceId": "listing"}
func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceID string `json:"serviceId"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, "select_service", func(s State, _ time.Time) (State, error) {
		return SelectService(s, req.ServiceID)
	})
}

// PUT /api/booking/sessions/{sessionID}/details {"answers": {...}}
func (h *Handler) SetDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, "set_details", func(s State, _ time.Time) (State, error) {
		return SetAnswers(s, req.Answers)
	})
}

// PUT /api/booking/sessions/{sessionID}/addons {"addons": ["drone_photos"]}
func (h *Handler) SetAddons(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Addons []string `json:"addons"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, "set_addons", func(s State, _ time.Time) (State, error) {
		return SetAddons(s, req.Addons)
	})
}

// POST /api/booking/sessions/{sessionID}/addons/{addonID}/toggle
func (h *Handler) ToggleAddon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "addonID")
	h.apply(w, r, "toggle_addon", func(s State, _ time.Time) (State, error) {
		return ToggleAddon(s, id)
	})
}

// PUT /api/booking/sessions/{sessionID}/schedule {"date": "2025-03-14", "time": "10:00 AM"}
func (h *Handler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, "set_schedule", func(s State, _ time.Time) (State, error) {
		return SetSchedule(s, req.Date, req.Time)
	})
}

// PUT /api/booking/sessions/{sessionID}/contact
func (h *Handler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req Contact
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, "set_contact", func(s State, _ time.Time) (State, error) {
		return SetContact(s, req)
	})
}

// POST /api/booking/sessions/{sessionID}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "next", Next)
}

// POST /api/booking/sessions/{sessionID}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "back", func(s State, _ time.Time) (State, error) {
		return Back(s)
	})
}

// POST /api/booking/sessions/{sessionID}/goto {"step": "service_details"}
func (h *Handler) GoTo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step Step `json:"step"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, "goto", func(s State, _ time.Time) (State, error) {
		return GoTo(s, req.Step)
	})
}

// POST /api/booking/sessions/{sessionID}/submit {"acceptTerms": true}
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AcceptTerms bool `json:"acceptTerms"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	sess, err := h.wizard.Submit(r.Context(), chi.URLParam(r, "sessionID"), req.AcceptTerms)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

// POST /api/booking/sessions/{sessionID}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.wizard.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

// GET /admin/bookings?limit=50
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	if h.log == nil {
		httpx.WriteError(w, http.StatusNotFound, "submission log not configured")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.log.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list booking submissions", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if recs == nil {
		recs = []SubmissionRecord{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"submissions": recs})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, name string, fn Transition) {
	sess, err := h.wizard.Apply(r.Context(), chi.URLParam(r, "sessionID"), name, fn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.WriteValidation(w, err) {
		return
	}
	var subErr *SubmissionError
	switch {
	case errors.As(err, &subErr):
		httpx.WriteRetryable(w, http.StatusBadGateway, "booking could not be submitted, please try again")
	case errors.Is(err, ErrSessionNotFound):
		httpx.WriteError(w, http.StatusNotFound, "booking session not found")
	case errors.Is(err, ErrSubmissionInFlight), errors.Is(err, ErrSessionBusy):
		httpx.WriteRetryable(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrWrongStep), errors.Is(err, ErrAlreadySubmitted):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("booking request failed", "path", r.URL.Path, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

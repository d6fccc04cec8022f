package inquiry

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/primer-realty/internal/catalog"
	"github.com/wolfman30/primer-realty/internal/http/httpx"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes is mounted at /api/inquiries.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/viewings", h.ListViewings)
	r.Post("/viewings", h.RequestViewing)
	r.Post("/contact", h.Contact)
	return r
}

func (h *Handler) RequestViewing(w http.ResponseWriter, r *http.Request) {
	var req ViewingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := h.svc.RequestViewing(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"request": saved,
		"message": "Viewing request submitted successfully! We'll contact you soon.",
	})
}

func (h *Handler) ListViewings(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ViewingRequests(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg ContactMessage
	if err := httpx.DecodeJSON(r, &msg); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.svc.SendContact(r.Context(), msg); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, map[string]string{
		"message": "Thank you for your message. We'll get back to you shortly.",
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if httpx.WriteValidation(w, err) {
		return
	}
	switch {
	case errors.Is(err, catalog.ErrPropertyNotFound):
		httpx.WriteError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, ErrDeliveryFailed):
		h.logger.Warn("inquiry delivery failed", "error", err)
		httpx.WriteRetryable(w, http.StatusBadGateway, "failed to submit request, please try again")
	default:
		h.logger.Error("inquiry request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

package newsletter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
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

// Routes is mounted at /api/newsletter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Status)
	r.Post("/", h.Subscribe)
	r.Delete("/", h.Unsubscribe)
	return r
}

type statusResponse struct {
	Subscribed bool   `json:"subscribed"`
	Message    string `json:"message,omitempty"`
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	subscribed, err := h.svc.Subscribed(r.Context())
	if err != nil {
		h.logger.Error("failed to read newsletter flag", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Subscribed: subscribed})
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	already, err := h.svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		if httpx.WriteValidation(w, err) {
			return
		}
		h.logger.Error("newsletter signup failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	msg := "Thank you for subscribing to our newsletter!"
	if already {
		msg = "You're already subscribed."
	}
	httpx.WriteJSON(w, http.StatusOK, statusResponse{Subscribed: true, Message: msg})
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unsubscribe(r.Context()); err != nil {
		h.logger.Error("newsletter unsubscribe failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

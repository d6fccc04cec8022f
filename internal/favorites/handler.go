package favorites

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/primer-realty/internal/catalog"
	"github.com/wolfman30/primer-realty/internal/http/httpx"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// Handler exposes favorites over HTTP.
type Handler struct {
	svc    *Service
	repo   *catalog.Repository
	logger *logging.Logger
}

// NewHandler creates a favorites handler. repo is used to reject unknown ids.
func NewHandler(svc *Service, repo *catalog.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, repo: repo, logger: logger}
}

// Routes returns the favorites routes, mounted at /api/favorites.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Delete("/", h.Clear)
	r.Post("/{id}/toggle", h.Toggle)
	return r
}

type listResponse struct {
	IDs []int `json:"ids"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list favorites", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{IDs: ids})
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid property id")
		return
	}
	if h.repo != nil {
		if _, err := h.repo.FindByID(id); err != nil {
			httpx.WriteError(w, http.StatusNotFound, "property not found")
			return
		}
	}

	ids, added, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to toggle favorite", "property_id", id, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"ids":      ids,
		"favorite": added,
	})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear favorites", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

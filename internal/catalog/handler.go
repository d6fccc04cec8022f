package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/primer-realty/internal/fixtures"
	"github.com/wolfman30/primer-realty/internal/http/httpx"
	"github.com/wolfman30/primer-realty/internal/observability/metrics"
	"github.com/wolfman30/primer-realty/internal/pagination"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// FavoriteSource resolves the current visitor's favorites.
type FavoriteSource interface {
	List(ctx context.Context) ([]int, error)
	Contains(ctx context.Context, id int) (bool, error)
}

// Handler exposes the property catalog over HTTP.
type Handler struct {
	repo      *Repository
	favorites FavoriteSource
	metrics   *metrics.CatalogMetrics
	logger    *logging.Logger
}

// NewHandler creates a catalog handler. favorites and m may be nil.
func NewHandler(repo *Repository, favorites FavoriteSource, m *metrics.CatalogMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, favorites: favorites, metrics: m, logger: logger}
}

// Routes returns the public catalog routes, mounted at /api/properties.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/featured", h.Featured)
	r.Get("/suggestions", h.Suggestions)
	r.Get("/{id}", h.Detail)
	return r
}

// List returns one page of filtered, sorted listings.
// GET /api/properties?location=&type=&minPrice=&maxPrice=&favorites=&sort=&page=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	view := ParseQuery(r.URL.Query())

	if view.Criteria.FavoritesOnly {
		if h.favorites == nil {
			view.Criteria.Favorites = nil
		} else {
			ids, err := h.favorites.List(r.Context())
			if err != nil {
				h.logger.Error("failed to load favorites", "error", err)
				httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			view.Criteria.Favorites = ids
		}
	}

	result, err := Query(h.repo.All(), view)
	if errors.Is(err, pagination.ErrPageOutOfRange) {
		h.metrics.ObserveQuery("properties", string(view.Sort), "out_of_range", 0)
		httpx.WriteError(w, http.StatusBadRequest, "page out of range")
		return
	}
	if err != nil {
		h.logger.Error("catalog query failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	outcome := "hit"
	if result.NoResults {
		outcome = "empty"
	}
	h.metrics.ObserveQuery("properties", string(result.Sort), outcome, result.Total)

	httpx.WriteJSON(w, http.StatusOK, struct {
		Result
		View View `json:"view"`
	}{Result: result, View: view})
}

// Featured returns the first listings of the document.
// GET /api/properties/featured?limit=6
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	limit := FeaturedCount
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"items": Featured(h.repo.All(), limit),
	})
}

// Suggestions returns search-box completions.
// GET /api/properties/suggestions?q=
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"suggestions": Suggestions(h.repo.All(), r.URL.Query().Get("q")),
	})
}

// DetailResponse is a listing with its similar listings.
type DetailResponse struct {
	Property Property   `json:"property"`
	Similar  []Property `json:"similar"`
	Favorite bool       `json:"favorite"`
}

// Detail returns one listing.
// GET /api/properties/{id}
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid property id")
		return
	}
	p, err := h.repo.FindByID(id)
	if errors.Is(err, ErrPropertyNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "property not found")
		return
	}

	resp := DetailResponse{Property: p, Similar: Similar(h.repo.All(), id, SimilarCount)}
	if h.favorites != nil {
		fav, err := h.favorites.Contains(r.Context(), id)
		if err != nil {
			h.logger.Warn("failed to check favorite", "property_id", id, "error", err)
		}
		resp.Favorite = fav
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// Reload refetches the properties document.
// POST /admin/catalog/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	n, err := h.repo.Reload(r.Context())
	switch {
	case errors.Is(err, fixtures.ErrStale):
		httpx.WriteError(w, http.StatusConflict, "superseded by a newer reload")
		return
	case fixtures.IsRetryable(err):
		httpx.WriteRetryable(w, http.StatusServiceUnavailable, "failed to load properties")
		return
	case err != nil:
		h.logger.Error("catalog reload failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"count": n})
}

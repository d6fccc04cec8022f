package blog

import (
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

// Handler exposes the blog over HTTP.
type Handler struct {
	posts   *fixtures.Collection[Post]
	reads   *ReadTracker
	metrics *metrics.CatalogMetrics
	logger  *logging.Logger
}

func NewHandler(posts *fixtures.Collection[Post], reads *ReadTracker, m *metrics.CatalogMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{posts: posts, reads: reads, metrics: m, logger: logger}
}

// Routes returns the blog routes, mounted at /api/posts.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/categories", h.Categories)
	r.Get("/popular", h.Popular)
	r.Get("/featured", h.Featured)
	r.Get("/read", h.ReadList)
	r.Get("/{id}", h.Get)
	return r
}

// List returns a page of posts.
// GET /api/posts?category=&q=&sort=&page=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := DefaultView().
		WithCategory(q.Get("category")).
		WithQuery(q.Get("q")).
		WithSort(SortKey(q.Get("sort")))
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid page")
			return
		}
		v.Page = page
	}

	page, err := Query(h.posts.Items(), v)
	if errors.Is(err, pagination.ErrPageOutOfRange) {
		h.metrics.ObserveQuery("posts", string(v.Sort), "out_of_range", 0)
		httpx.WriteError(w, http.StatusBadRequest, "page out of range")
		return
	}
	if err != nil {
		h.logger.Error("blog query failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	outcome := "hit"
	if page.Total == 0 {
		outcome = "empty"
	}
	h.metrics.ObserveQuery("posts", string(v.Sort), outcome, page.Total)
	httpx.WriteJSON(w, http.StatusOK, struct {
		pagination.Page[Post]
		NoResults bool `json:"no_results"`
		View      View `json:"view"`
	}{Page: page, NoResults: page.Total == 0, View: v})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"categories": Categories(h.posts.Items())})
}

func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": Popular(h.posts.Items(), PopularCount)})
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	post, ok := Featured(h.posts.Items())
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "no posts")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

// Get returns one post and records it as read for the visitor.
// GET /api/posts/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	var post *Post
	for _, p := range h.posts.Items() {
		if p.ID == id {
			post = &p
			break
		}
	}
	if post == nil {
		httpx.WriteError(w, http.StatusNotFound, ErrPostNotFound.Error())
		return
	}
	if h.reads != nil {
		if err := h.reads.MarkRead(r.Context(), id); err != nil {
			h.logger.Warn("failed to mark post read", "post_id", id, "error", err)
		}
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) ReadList(w http.ResponseWriter, r *http.Request) {
	if h.reads == nil {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ids": []int{}})
		return
	}
	ids, err := h.reads.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list read posts", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

// Reload refetches the blog document.
// POST /admin/blog/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	n, err := h.posts.Reload(r.Context())
	switch {
	case errors.Is(err, fixtures.ErrStale):
		httpx.WriteError(w, http.StatusConflict, "superseded by a newer reload")
	case fixtures.IsRetryable(err):
		httpx.WriteRetryable(w, http.StatusServiceUnavailable, "failed to load posts")
	case err != nil:
		h.logger.Error("blog reload failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"count": n})
	}
}

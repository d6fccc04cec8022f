package visitor

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// CookieName carries the visitor id between requests.
	CookieName = "primer_visitor"
	// HeaderName lets API clients pass the id explicitly.
	HeaderName = "X-Visitor-ID"

	cookieMaxAge = 365 * 24 * time.Hour
)

// Middleware resolves the visitor id from the header or cookie and issues a
// new one when neither holds a valid UUID.
func Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := parse(r.Header.Get(HeaderName))
			if id == "" {
				if c, err := r.Cookie(CookieName); err == nil {
					id = parse(c.Value)
				}
			}
			if id == "" {
				id = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(HeaderName, id)
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

func parse(raw string) string {
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

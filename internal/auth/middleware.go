package auth

import (
	"context"
	"net/http"
)

type contextKey int

const ownerKey contextKey = iota

// RequireBasicAuth resolves HTTP basic credentials through the store and puts
// the owner id into the request context. Requests with missing or bad
// credentials get a 401 with an empty body.
func RequireBasicAuth(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			ownerID, err := store.Resolve(username, password)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), ownerID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="cashcards"`)
	w.WriteHeader(http.StatusUnauthorized)
}

// WithOwner returns a context carrying the resolved owner id.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// OwnerFromContext returns the owner id resolved for the request, if any.
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerKey).(string)
	return ownerID, ok
}

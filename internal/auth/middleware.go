package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pricelab/pricelab/internal/platform/httpx"
)

// IdentitySource resolves a user ID into the current Identity.
type IdentitySource interface {
	IdentityOf(ctx context.Context, userID int64) (Identity, error)
}

// Middleware resolves the request's bearer token into an Identity and
// installs it on the context. The identity is loaded from storage on every
// request; the token itself carries only the user ID, so verification
// changes take effect immediately. Requests without a valid token pass
// through anonymously; permission-gated routes reject them downstream.
func Middleware(store *TokenStore, identities IdentitySource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := store.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrTokenNotFound) && logger != nil {
					logger.Error("resolve bearer token", slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			identity, err := identities.IdentityOf(r.Context(), userID)
			if err != nil {
				// Account removed while the token was live.
				if !errors.Is(err, httpx.ErrNotFound) && logger != nil {
					logger.Error("load identity", slog.Int64("user_id", userID), slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

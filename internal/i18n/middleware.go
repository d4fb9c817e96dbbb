// Package i18n resolves the requesting user's language from request headers.
package i18n

import (
	"context"
	"net/http"
	"strings"
)

type userLanguageContextKey struct{}

var userLanguageContextKeyInstance = userLanguageContextKey{}

// Middleware stores the first Accept-Language tag of each request in its
// context, normalized to the primary subtag ("en-US" becomes "en").
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			lng := r.Header.Get("Accept-Language")
			lng, _, _ = strings.Cut(lng, ",")
			lng, _, _ = strings.Cut(lng, ";")
			lng, _, _ = strings.Cut(lng, "-")
			lng = strings.TrimSpace(lng)

			if lng != "" && lng != "*" {
				ctx = context.WithValue(ctx, userLanguageContextKeyInstance, strings.ToLower(lng))
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserLanguage returns the language stored by Middleware, or an empty string.
func UserLanguage(ctx context.Context) string {
	if lng, ok := ctx.Value(userLanguageContextKeyInstance).(string); ok {
		return lng
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"

	"productapi/internal/catalog"
)

const (
	// APIVersionHeader selects the listing version on /api/newproducts
	APIVersionHeader = "api-version"
	// APIVersionResponseHeader echoes the resolved version
	APIVersionResponseHeader = "API-Version"
)

type versionKey struct{}

// APIVersion resolves the api-version header into the request context and
// echoes it on the response. A missing header resolves to v1; unknown tags
// are kept verbatim so handlers can echo them.
func APIVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := catalog.ResolveVersion(r.Header.Get(APIVersionHeader))
		w.Header().Set(APIVersionResponseHeader, string(v))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), versionKey{}, v)))
	})
}

// VersionFromContext returns the version resolved by APIVersion, or
// catalog.DefaultVersion when the middleware did not run.
func VersionFromContext(ctx context.Context) catalog.Version {
	if v, ok := ctx.Value(versionKey{}).(catalog.Version); ok {
		return v
	}
	return catalog.DefaultVersion
}

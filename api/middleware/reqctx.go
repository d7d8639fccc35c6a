package middleware

import (
	"net/http"

	"github.com/prasetyowira/starter/infrastructure/reqctx"
)

// RequestContext makes the path and headers of the in-flight request
// available to code that only receives a context.Context.
func RequestContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := reqctx.With(r.Context(), reqctx.FromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package httpx

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/nextprepbd/platform/pkg/slogx"
)

// ServiceCallerHeader names the header a service-tier caller uses to declare
// which admin identity it is acting for. The value is informational for
// audit guards (e.g. self-deletion checks); the authority comes from the key.
const ServiceCallerHeader = "X-Service-Caller"

// RequireServiceKey gates an endpoint behind the shared service key. The
// comparison is constant-time so the key cannot be probed byte by byte.
// On success the request context carries the service tier marker plus the
// declared caller id.
func RequireServiceKey(serviceKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if serviceKey == "" {
				// No key configured means the service tier is disabled
				log.Warn("service-tier endpoint called but no service key is configured")
				writeBearerError(w, "service tier disabled")
				return
			}

			presented := r.Header.Get("X-Service-Key")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(serviceKey)) != 1 {
				log.Warn("service key rejected", "path", r.URL.Path)
				writeBearerError(w, "invalid service key")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyTier, "service")
			ctx = context.WithValue(ctx, CtxKeyUserID, r.Header.Get(ServiceCallerHeader))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TierFromCtx returns the trust tier marker set by middleware, or "".
func TierFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyTier).(string); ok {
		return v
	}
	return ""
}

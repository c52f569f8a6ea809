// Package requestid tags every request with an ID that follows it into logs
// and audit events.
package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"vaxreg/pkg/requestcontext"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

var acceptable = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Middleware reuses a well-formed inbound X-Request-ID or generates one, stores
// it in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !acceptable.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

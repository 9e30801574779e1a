package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"stockflow-backend/pkg/utils"
)

// PanicRecovery converts handler panics into 500 responses so one bad
// request cannot take the whole server down. The stack goes to the log,
// never to the client.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

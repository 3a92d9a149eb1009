package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/utils"
)

// AllowOnlyCIDRS allows only the listed IPs/CIDRs. An empty list lets every
// request through. trustProxy resolves the client from proxy headers.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("no CIDR allow-list, accepting every client")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("CIDR allow-list enabled",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("client rejected by allow-list",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

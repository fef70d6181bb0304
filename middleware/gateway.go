package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Dosada05/tournament-admin/metrics"
)

// GatewayOptions configures the request filter in front of the router.
type GatewayOptions struct {
	LoginPath      string
	PublicPrefixes []string
	// PublicReadPrefixes are open for GET and HEAD only.
	PublicReadPrefixes []string
}

func DefaultGatewayOptions() GatewayOptions {
	return GatewayOptions{
		LoginPath:          "/staff/login",
		PublicPrefixes:     []string{"/public/", "/auth/", "/staff/login", "/healthz", "/metrics"},
		PublicReadPrefixes: []string{"/leaderboard/snapshots"},
	}
}

// Gateway sends anonymous browser navigation into the admin area to the staff login page
// and rejects every other anonymous request with 401, except public paths.
func Gateway(guard *Guard, opts GatewayOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if opts.isPublic(r.Method, path) || guard.IsAuthorized(r) {
				next.ServeHTTP(w, r)
				return
			}

			if isNavigation(r.Method) && isAdminPath(path) {
				target := opts.LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			metrics.GuardRejections.Inc()
			writeUnauthorized(w, ErrNoCredentials)
		})
	}
}

func (o GatewayOptions) isPublic(method, path string) bool {
	for _, prefix := range o.PublicPrefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	if isNavigation(method) {
		for _, prefix := range o.PublicReadPrefixes {
			if hasPathPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

// hasPathPrefix matches whole segments: "/healthz" does not match "/healthzz".
func hasPathPrefix(path, prefix string) bool {
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/")
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAdminPath(path string) bool {
	return hasPathPrefix(path, "/admin")
}

func isNavigation(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

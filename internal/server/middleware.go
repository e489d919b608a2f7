package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/matthewsawatzky/whitelabel/internal/auth"
	"github.com/matthewsawatzky/whitelabel/internal/util"
)

const unauthorizedMessage = "Invalid or missing API key. Include X-API-Key header or apiKey query parameter."

// originAllowed accepts configured origins, a "*" entry, and any origin
// served from the local machine.
func (a *App) originAllowed(origin string) bool {
	origin = strings.TrimRight(origin, "/")
	if slices.Contains(a.opts.AllowedOrigins, "*") || slices.Contains(a.opts.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && util.IsLocalHost(u.Host)
}

// cors reflects allowed origins without allowing credentials; keys travel
// in a header or query parameter. Plugin iframes send "null" and tools send
// nothing; both pass.
func (a *App) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()
		h.Add("Vary", "Origin")
		if origin != "" && origin != "null" && !a.originAllowed(origin) {
			a.logger.Warn("cors blocked origin", "origin", origin, "allowed", a.opts.AllowedOrigins)
			a.writeError(w, http.StatusForbidden, "Not allowed by CORS")
			return
		}
		if origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET,HEAD,POST,OPTIONS")
			if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
				h.Set("Access-Control-Allow-Headers", req)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPIKey lets requests addressed to localhost through and checks
// everything else against the configured and issued keys. Repeated
// failures from one address lock it out.
func (a *App) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.IsLocalHost(r.Host) {
			a.logger.Debug("localhost request accepted without api key", "path", r.URL.Path)
			ctx := context.WithValue(r.Context(), ctxPrincipalKey, auth.Principal{Local: true})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		ip := remoteIP(r)
		locked, retryAfter, err := a.store.CheckAuthAllowed(ip)
		if err == nil && locked {
			w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
			a.writeErrorMessage(w, http.StatusTooManyRequests, "Too Many Requests", formatRetry(retryAfter))
			return
		}

		presented := r.Header.Get("X-API-Key")
		if presented == "" {
			presented = r.URL.Query().Get("apiKey")
		}
		principal, err := a.auth.Authenticate(presented)
		if err != nil {
			if !errors.Is(err, auth.ErrMissingKey) && !errors.Is(err, auth.ErrInvalidKey) {
				a.logger.Error("api key lookup failed", "err", err)
			}
			lock, _ := a.store.RegisterAuthFailure(ip)
			if lock > 0 {
				a.logger.Warn("client locked out", "ip", ip, "duration", lock.String())
			}
			_ = a.store.RecordAudit("ip:"+ip, "auth.failure", r.URL.Path, "")
			a.writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized", unauthorizedMessage)
			return
		}
		_ = a.store.ResetAuthFailures(ip)
		ctx := context.WithValue(r.Context(), ctxPrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matthewsawatzky/whitelabel/internal/auth"
	"github.com/matthewsawatzky/whitelabel/internal/db"
	"github.com/matthewsawatzky/whitelabel/internal/favicon"
	"github.com/matthewsawatzky/whitelabel/internal/generate"
	"github.com/matthewsawatzky/whitelabel/internal/pipeline"
)

type ctxKey string

const ctxPrincipalKey ctxKey = "principal"

type App struct {
	opts     Options
	store    *db.Store
	logger   *slog.Logger
	auth     *auth.Authenticator
	favicons *favicon.Generator
	pipeline *pipeline.Pipeline
}

// New wires an App around an open store. A nil logger logs nowhere.
func New(opts Options, store *db.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if opts.MaxUploadSizeMB <= 0 {
		opts.MaxUploadSizeMB = 10
	}
	return &App{
		opts:     opts,
		store:    store,
		logger:   logger,
		auth:     auth.NewAuthenticator(opts.APIKey, store),
		favicons: favicon.NewGenerator(logger),
		pipeline: pipeline.New(generate.Options{NeutralColorVar: opts.NeutralColorVar, Languages: opts.Languages}, logger),
	}
}

// Handler returns the routed handler with every middleware applied.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.handleHealth)
	mux.Handle("/api/generate-favicons", a.requireAPIKey(http.HandlerFunc(a.handleGenerateFavicons)))
	mux.Handle("/api/generate-theme", a.requireAPIKey(http.HandlerFunc(a.handleGenerateTheme)))
	return a.recoverer(a.securityHeaders(a.cors(mux)))
}

// NewLogger builds the JSON logger the server and CLI share.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handlerLevel := new(slog.LevelVar)
	handlerLevel.Set(parseLogLevel(level))
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: handlerLevel}))
}

func Run(ctx context.Context, opts Options) error {
	store, err := db.Open(opts.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := NewLogger(os.Stdout, opts.LogLevel)
	if strings.TrimSpace(opts.APIKey) == "" {
		logger.Warn("no api_key configured; only issued keys and localhost requests are accepted")
	}
	app := New(opts, store, logger)

	addr := net.JoinHostPort(opts.Bind, strconv.Itoa(opts.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "version", opts.Version, "allowed_origins", opts.AllowedOrigins)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

func (a *App) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.logger.Error("panic recovered", "panic", rec, "path", r.URL.Path)
				a.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func remoteIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *App) currentPrincipal(r *http.Request) auth.Principal {
	p, _ := r.Context().Value(ctxPrincipalKey).(auth.Principal)
	return p
}

func (a *App) audit(r *http.Request, action, target string, meta any) {
	var metadata string
	if meta != nil {
		b, _ := json.Marshal(meta)
		metadata = string(b)
	}
	if err := a.store.RecordAudit(a.currentPrincipal(r).Actor(), action, target, metadata); err != nil {
		a.logger.Warn("audit write failed", "action", action, "err", err)
	}
}

func (a *App) recordRun(brand, kind string, summary any) string {
	b, err := json.Marshal(summary)
	if err != nil {
		return ""
	}
	id, err := a.store.RecordRun(brand, kind, string(b))
	if err != nil {
		a.logger.Warn("run history write failed", "kind", kind, "err", err)
		return ""
	}
	return id
}

func (a *App) enforceMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		a.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]any{"error": message})
}

func (a *App) writeErrorMessage(w http.ResponseWriter, status int, errText, message string) {
	a.writeJSON(w, status, map[string]any{"error": errText, "message": message})
}

func retryAfterSeconds(d time.Duration) string {
	return strconv.Itoa(max(1, int((d+time.Second-1)/time.Second)))
}

func formatRetry(d time.Duration) string {
	return fmt.Sprintf("too many failed attempts, retry in %s", d.Round(time.Second))
}

package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/careercompass/service-auth-go/internal/auth"
	"github.com/careercompass/service-auth-go/internal/config"
	"github.com/careercompass/service-auth-go/internal/github"
	"github.com/careercompass/service-auth-go/internal/mailer"
	"github.com/careercompass/service-auth-go/internal/task"
	taskrepo "github.com/careercompass/service-auth-go/internal/task/repo"
	"github.com/careercompass/service-auth-go/internal/user"
	userrepo "github.com/careercompass/service-auth-go/internal/user/repo"
	"github.com/careercompass/service-auth-go/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

type requestIDKey struct{}

// RequestIDMiddleware tags every request with a process-unique id and
// echoes it in the X-Request-Id response header. An id supplied by the
// caller is kept so ids can follow a request across services.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = utilities.NewRequestID()
			}
			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFrom returns the id assigned by RequestIDMiddleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", RequestIDFrom(r.Context()),
			)
		})
	}
}

// CORSMiddleware answers cross-origin requests for the configured
// origins. Credentials are allowed, so the matching origin is echoed
// back instead of a wildcard. Preflight requests are answered before
// any auth runs.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, allowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only makes sense over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts the HTTP surface on a standard http.ServeMux
// and wires the handler dependencies from settings and the DB pool.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, settings *config.Settings) http.Handler {
	mux := http.NewServeMux()

	// health stays DB-free so probes keep answering while the pool is down
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	tokens := auth.NewTokenService(settings.JWTSecret, settings.AccessTokenTTL())

	var activationMailer user.ActivationMailer
	if settings.MailerToken != "" {
		activationMailer = mailer.New(settings.MailerEndpoint, settings.MailerToken, settings.MailerSender)
	}

	users := userrepo.NewUserRepo(db)
	userSvc := user.NewUserService(users, user.BcryptHasher{Cost: settings.BcryptCost}, activationMailer, logger)
	userHandler := user.NewHandler(userSvc, tokens, logger)

	mux.HandleFunc("POST /token", userHandler.Token)
	mux.HandleFunc("POST /user", userHandler.Create)
	// {$} pins the route to the exact trailing-slash path
	mux.HandleFunc("POST /user/activate/{$}", userHandler.Activate)

	guard := auth.Middleware(tokens, users, logger)
	mux.Handle("GET /user/me", guard(http.HandlerFunc(userHandler.Me)))

	taskSvc := task.NewTaskService(taskrepo.NewTaskRepo(db))
	taskHandler := task.NewHandler(taskSvc, logger)
	mux.Handle("GET /task", guard(http.HandlerFunc(taskHandler.List)))
	mux.Handle("POST /task", guard(http.HandlerFunc(taskHandler.Create)))

	var ghClient *github.Client
	if settings.GithubEnabled() {
		ghClient = github.NewClient(settings.GithubClientID, settings.GithubClientSecret, settings.GithubRedirectURL)
	}
	ghHandler := github.NewHandler(ghClient, userSvc, tokens, settings.JWTSecret, logger)
	mux.HandleFunc("GET /auth/github/login", ghHandler.Login)
	mux.HandleFunc("GET /auth/github/callback", ghHandler.Callback)

	handler := CORSMiddleware(settings.AllowedOrigins)(
		RequestIDMiddleware()(
			LoggingMiddleware(logger)(
				SecurityHeadersMiddleware()(mux))))
	return handler
}

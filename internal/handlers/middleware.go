package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"spellingbee/internal/practice"
	"spellingbee/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "practiceSession"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	secret   string
	registry *SessionRegistry
	log      *zap.Logger
}

func NewMiddleware(secret string, registry *SessionRegistry, log *zap.Logger) *Middleware {
	return &Middleware{
		secret:   secret,
		registry: registry,
		log:      log,
	}
}

// RequireSession validates the session token and injects the resolved
// practice session into the request context.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondWithError(w, m.log, http.StatusUnauthorized, "Missing session token", nil)
			return
		}

		sessionID, err := security.ParseSessionToken(m.secret, token)
		if err != nil {
			respondWithError(w, m.log, http.StatusUnauthorized, "Invalid session token", err)
			return
		}

		session, ok := m.registry.Get(sessionID)
		if !ok {
			respondWithError(w, m.log, http.StatusUnauthorized, "Unknown session", nil)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next(w, r.WithContext(ctx))
	}
}

// extractToken reads the token from the Authorization header, falling back
// to the session cookie for browser clients.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return ""
	}

	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// GetSessionFromContext retrieves the practice session from the request context
func GetSessionFromContext(ctx context.Context) *practice.Session {
	session, _ := ctx.Value(SessionContextKey).(*practice.Session)
	return session
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request with method, path, status and duration.
func Logging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/response"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

// tokenVerifier is satisfied by *auth.Client.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// roleResolver looks up the caller's role on every request.
type roleResolver interface {
	GetRole(ctx context.Context, uid string) (string, error)
}

type Middleware struct {
	AuthClient      tokenVerifier
	Roles           roleResolver
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(client tokenVerifier, roles roleResolver, rh response.ResponseHandler) *Middleware {
	return &Middleware{AuthClient: client, Roles: roles, ResponseHandler: rh}
}

// context keys
type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey contextKey = "email"
)

// FirebaseAuth verifies the bearer ID token and stores uid and email in the context.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("missing Authorization header"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Debug("token verification failed", "error", err)
			m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("invalid or expired token"))
			return
		}

		email, _ := token.Claims["email"].(string)

		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = context.WithValue(ctx, EmailKey, email)
		_, ctx = logger.With(ctx, "uid", token.UID, "email", email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets the request through only when the caller's stored role is
// one of roles. It must run after FirebaseAuth.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UID(r.Context())
			if uid == "" {
				m.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("not authenticated"))
				return
			}

			role, err := m.Roles.GetRole(r.Context(), uid)
			if err != nil {
				m.ResponseHandler.HandleError(w, r, err)
				return
			}
			if !slices.Contains(roles, role) {
				m.ResponseHandler.HandleError(w, r, errs.NewForbiddenError("this action requires role "+strings.Join(roles, " or ")))
				return
			}

			_, ctx := logger.With(r.Context(), "role", role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftkart/internal/domain"
	"craftkart/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(service.NewTokenIssuer(testSecret, time.Hour), zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/"+pathSuffix, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "PATCH", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(role domain.Role) bool {
			expired := service.NewTokenIssuer(testSecret, -time.Hour)
			token, _ := expired.Issue(&domain.User{ID: uuid.New(), Role: role})

			handler := AuthMiddleware(service.NewTokenIssuer(testSecret, time.Hour), zap.NewNop())(okHandler())

			req := httptest.NewRequest("GET", "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.OneConstOf(domain.RoleCustomer, domain.RoleSeller, domain.RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidTokensAllowProcessing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens put user id and role in the context", prop.ForAll(
		func(role domain.Role) bool {
			issuer := service.NewTokenIssuer(testSecret, time.Hour)
			user := &domain.User{ID: uuid.New(), Role: role}
			token, _ := issuer.Issue(user)

			handlerCalled := false
			handler := AuthMiddleware(issuer, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true

				ctxUserID, ok1 := GetUserID(r.Context())
				ctxRole, ok2 := GetUserRole(r.Context())
				if !ok1 || !ok2 || ctxUserID != user.ID || ctxRole != role {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}

				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return handlerCalled && w.Code == http.StatusOK
		},
		gen.OneConstOf(domain.RoleCustomer, domain.RoleSeller, domain.RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_InvalidTokenFormatRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("invalid token formats are rejected", prop.ForAll(
		func(invalidToken string) bool {
			handler := AuthMiddleware(service.NewTokenIssuer(testSecret, time.Hour), zap.NewNop())(okHandler())

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+invalidToken)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_RejectsUnknownRoleAndBadSubject(t *testing.T) {
	issuer := service.NewTokenIssuer(testSecret, time.Hour)
	handler := AuthMiddleware(issuer, zap.NewNop())(okHandler())

	sign := func(claims jwt.Claims) string {
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		return token
	}
	expiry := jwt.NewNumericDate(time.Now().Add(time.Hour))

	for name, token := range map[string]string{
		"unknown role": sign(&service.Claims{Role: "root", RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString(), ExpiresAt: expiry}}),
		"bad subject":  sign(&service.Claims{Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "42", ExpiresAt: expiry}}),
		"no expiry":    sign(&service.Claims{Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()}}),
		"no prefix":    "",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			} else {
				req.Header.Set("Authorization", "Token abc")
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), domain.RoleSeller, domain.RoleAdmin)(okHandler())

	tests := []struct {
		name string
		role domain.Role
		set  bool
		want int
	}{
		{"seller allowed", domain.RoleSeller, true, http.StatusOK},
		{"admin allowed", domain.RoleAdmin, true, http.StatusOK},
		{"customer forbidden", domain.RoleCustomer, true, http.StatusForbidden},
		{"anonymous forbidden", "", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.set {
				req = req.WithContext(WithUser(req.Context(), uuid.New(), tt.role))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

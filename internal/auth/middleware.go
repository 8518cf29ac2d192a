package auth

import (
	"crypto/rsa"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// Claims are the token claims this service consumes. Token issuance
// lives in the identity service; here we only validate and extract.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware validates bearer tokens and injects the authenticated user
// into the request context.
type Middleware struct {
	publicKey *rsa.PublicKey
	logger    *slog.Logger
}

func NewMiddleware(publicKey *rsa.PublicKey, logger *slog.Logger) *Middleware {
	return &Middleware{
		publicKey: publicKey,
		logger:    logger,
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			m.writeUnauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.parseToken(token)
		if err != nil {
			m.logger.Warn("token validation failed", "error", err, "path", r.URL.Path)
			m.writeUnauthorized(w, "invalid or expired token")
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			m.logger.Warn("token subject is not a user id", "subject", claims.Subject)
			m.writeUnauthorized(w, "invalid token subject")
			return
		}

		user := &User{
			ID:    userID,
			Email: claims.Email,
			Role:  workflow.Role(claims.Role),
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func (m *Middleware) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Middleware) writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/foliotrack/folio/internal/common"
)

// signJWT creates a signed HMAC-SHA256 access token.
func signJWT(config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "api",
		"iss": "folio-server",
		"iat": now.Unix(),
		"exp": now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// handleAuthLogin handles POST /api/auth/login. Exchanges the API
// password for a bearer token.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.Auth.APIPasswordHash == "" {
		WriteError(w, http.StatusNotFound, "Authentication is not configured")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.app.Config.Auth.APIPasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("remote", r.RemoteAddr).Msg("Failed login attempt")
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := signJWT(&s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_in": int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
	})
}

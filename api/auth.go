package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// adminSubject is the only principal; there are no user accounts.
const adminSubject = "admin"

type AuthHandler struct {
	passwordHash  string
	jwtSecret     string
	tokenDuration time.Duration
	binder        *Binder
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(passwordHash, jwtSecret string, tokenDuration time.Duration, binder *Binder) *AuthHandler {
	return &AuthHandler{passwordHash: passwordHash, jwtSecret: jwtSecret, tokenDuration: tokenDuration, binder: binder}
}

type tokenRequest struct {
	Password string `json:"password" validate:"required,max=200"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Token exchanges the admin password for a signed bearer token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.jwtSecret == "" {
		writeError(w, http.StatusNotFound, "authentication is disabled")
		return
	}

	var req tokenRequest
	if !h.binder.Bind(w, r, "auth_token", &req) {
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now()
	exp := now.Add(h.tokenDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeInternal(w, r, "sign token", err)
		return
	}

	writeJSON(w, tokenResponse{Token: tokenStr, ExpiresAt: exp.UTC().Truncate(time.Second)}, http.StatusOK)
}

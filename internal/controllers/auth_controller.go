package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/foureyes/foureyes/internal/config"
	"github.com/foureyes/foureyes/internal/engine"
	"github.com/foureyes/foureyes/internal/util"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/models"

	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	UserRepo engine.UserRepo
}

func NewAuthController(userRepo engine.UserRepo) *AuthController {
	return &AuthController{UserRepo: userRepo}
}

// RequireAuth authenticates by session cookie or X-API-Key header and
// puts the operator's username on the request context. That username is
// the maker/checker identity downstream, so the two-person rule checks
// real authenticated identities, not caller-supplied ids.
func (wc *AuthController) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 1) Try session cookie
		if c, err := r.Cookie("sessionId"); err == nil && c.Value != "" {
			u, err := wc.UserRepo.FindBySessionID(c.Value, time.Now().UTC())
			if err == nil && u != nil {
				ctx := context.WithValue(r.Context(), core.CtxKeyUsername, u.Username)
				next(w, r.WithContext(ctx))
				return
			}
		}
		// 2) Try API key header
		apiKey := r.Header.Get("X-API-Key")
		if apiKey != "" {
			u, err := wc.UserRepo.FindByApiKey(apiKey)
			if err == nil && u != nil {
				ctx := context.WithValue(r.Context(), core.CtxKeyUsername, u.Username)
				next(w, r.WithContext(ctx))
				return
			}
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
}

func (wc *AuthController) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.LoginRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	u, err := wc.UserRepo.FindByUsername(req.Username)
	if err != nil {
		slog.Error("Login lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if u == nil || !u.Enabled || !u.Password.Valid {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password.String), []byte(req.Password)) != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := newSessionToken()
	hours := config.GetSystemSettingInteger(config.WEB_SESSION_EXPIRY_HOURS)
	expiry := time.Now().UTC().Add(time.Duration(hours) * time.Hour)
	if err := wc.UserRepo.UpdateSession(u.ID, token, expiry); err != nil {
		slog.Error("Failed to store session", "error", err, "username", u.Username)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "sessionId",
		Value:    token,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: true,
	})
	util.WriteJSONResponse(w, http.StatusOK, models.LoginResponse{Username: u.Username, SessionID: token})
}

func (wc *AuthController) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie("sessionId"); err == nil && c.Value != "" {
		if err := wc.UserRepo.ClearSessionBySessionID(c.Value); err != nil {
			slog.Error("Failed to clear session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: "sessionId", Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func newSessionToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// usernameFromContext returns the authenticated operator or "" when the
// request somehow bypassed RequireAuth.
func usernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(core.CtxKeyUsername).(string); ok {
		return v
	}
	return ""
}

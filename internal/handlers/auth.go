package handlers

import (
	"Reisekarte/internal/middleware"
	"Reisekarte/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// wrongCodeMessage показывается пользователю при неверном коде.
const wrongCodeMessage = "Falscher Zugriffscode. Bitte erneut versuchen."

// AuthHandler обслуживает страницу логина и вход/выход.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger *zap.SugaredLogger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

// loginRequest — тело POST /login. Поля дублируются и в form-данных.
type loginRequest struct {
	AccessCode string `json:"accessCode"`
	SessionID  string `json:"sessionId"`
}

// LoginPage отдаёт страницу логина. Сессия создаётся сразу: её id
// уходит в cookie и встраивается в страницу.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := h.Auth.StartSession()

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, loginPageHTML, sess.ID)
}

// Login принимает код доступа как JSON, так и обычной формой.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.Logger.Warnw("login: invalid request body", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request"})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request"})
			return
		}
		req.AccessCode = r.FormValue("accessCode")
		req.SessionID = r.FormValue("sessionId")
	}

	if req.SessionID == "" {
		req.SessionID = middleware.SessionIDFromRequest(r)
	}

	redirect, err := h.Auth.Login(req.SessionID, req.AccessCode)
	if errors.Is(err, service.ErrWrongCode) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": wrongCodeMessage,
		})
		return
	}
	if err != nil {
		h.Logger.Errorw("login: service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "internal error"})
		return
	}

	// redirect имеет вид /map?sessionId=<id>
	sessionID := strings.TrimPrefix(redirect, "/map?sessionId=")
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"redirect": redirect,
	})
}

// Logout удаляет сессию и возвращает на страницу логина.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := middleware.SessionIDFromRequest(r); id != "" {
		h.Auth.Logout(id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

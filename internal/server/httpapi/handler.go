package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlevkov/authd/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Bienvenue"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := s.auth.Register(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email already registered"})
		case errors.Is(err, common.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email and password are required"})
		default:
			s.logger.Error(r.Context(), "registration failed", "error", err.Error())
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		}
		return
	}

	s.logger.Info(r.Context(), "user registered", "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email, "message": "user created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	email := r.FormValue("email")
	password := r.FormValue("password")

	if !s.auth.ValidateLogin(r.Context(), email, password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	token, err := s.auth.CreateSession(r.Context(), email)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "logged in"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {

	user, err := s.auth.ResolveSession(r.Context(), s.sessionToken(r))
	if err != nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
		return
	}

	s.auth.DestroySession(r.Context(), user.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {

	user, err := s.auth.ResolveSession(r.Context(), s.sessionToken(r))
	if err != nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email})
}

func (s *Server) handleResetToken(w http.ResponseWriter, r *http.Request) {

	email := r.FormValue("email")

	token, err := s.auth.RequestPasswordReset(r.Context(), email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
			return
		}
		s.logger.Error(r.Context(), "reset token request failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": email, "reset_token": token})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {

	email := r.FormValue("email")
	token := r.FormValue("reset_token")
	newPassword := r.FormValue("new_password")

	if err := s.auth.ApplyPasswordReset(r.Context(), token, newPassword); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrInvalidInput):
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
		default:
			s.logger.Error(r.Context(), "password update failed", "error", err.Error())
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": email, "message": "Password updated"})
}

// sessionToken extracts the session token from the request cookie; "" when
// the cookie is absent.
func (s *Server) sessionToken(r *http.Request) string {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

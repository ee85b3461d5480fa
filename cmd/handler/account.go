package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/middleware"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
)

const (
	tokenCookie = "jwt"
	tokenTTL    = 60 * 60 * time.Second
)

// AccountHandler issues and revokes the tokens the role guard checks.
type AccountHandler struct {
	repo      repository.UserRepo
	tokenAuth *jwtauth.JWTAuth
	log       *slog.Logger
}

type userResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
}

func NewAccountHandler(repo repository.UserRepo, tokenAuth *jwtauth.JWTAuth, log *slog.Logger) *AccountHandler {
	return &AccountHandler{repo: repo, tokenAuth: tokenAuth, log: log}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/account", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Get("/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(h.tokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie))
			r.Use(middleware.RequireAuth)
			r.Get("/current-user", h.currentUser)
			r.Post("/change-password", h.changePassword)
		})
	})
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		titled(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.repo.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		titled(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"sub":  user.Username,
		"role": user.Role,
		"exp":  jwtauth.ExpireIn(tokenTTL),
	})
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(tokenTTL),
	})
	h.log.InfoContext(r.Context(), "user logged in", "username", user.Username)
	render.JSON(w, r, userResponse{Username: user.Username, Role: user.Role, Token: tokenString})
}

func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	render.JSON(w, r, map[string]string{"message": "Logout successful"})
}

func (h *AccountHandler) currentUser(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())
	username, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	render.JSON(w, r, userResponse{Username: username, Role: role})
}

func (h *AccountHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		titled(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, claims, _ := jwtauth.FromContext(r.Context())
	username, _ := claims["sub"].(string)
	user, err := h.repo.GetByUsername(r.Context(), username)
	if errors.Is(err, repository.ErrUserNotFound) {
		titled(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err != nil {
		writeError(w, r, h.log, err, "")
		return
	}

	err = h.repo.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		render.JSON(w, r, map[string]string{"message": "Password changed successfully"})
	case errors.Is(err, repository.ErrWrongPassword), errors.Is(err, repository.ErrInvalidInput):
		titled(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, h.log, err, "")
	}
}

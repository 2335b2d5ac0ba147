package handlers

import (
	"net/http"

	"devconnector/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required,min=6,alphanum" msg:"Please enter a password with 6 or more characters"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// currentUser returns the authenticated caller or answers 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := service.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "No token, authorization denied", http.StatusUnauthorized)
	}
	return userID, ok
}

// Register creates an account and returns a session token.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	token, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, TokenResponse{Token: token}, http.StatusOK)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, TokenResponse{Token: token}, http.StatusOK)
}

// CurrentUser returns the caller's user record without the password hash.
func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.CurrentUser(r.Context(), userID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}

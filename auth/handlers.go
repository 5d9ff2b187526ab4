// This file contains the HTTP handlers for the auth endpoints. Credentials
// arrive as form fields (username/password), matching the documented HTTP
// surface; responses are JSON.
package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/user/aidoctor-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user in the system.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 201 {object} auth.MessageResponse "User registered successfully"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing fields"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - username already exists"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid form body", err))
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		// The created record (and in particular the hash) is never echoed
		// back; registration returns a confirmation only.
		if _, err := h.service.Register(r.Context(), username, password); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, MessageResponse{Message: "user registered successfully"})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Logs in an existing user and returns a bearer access token.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} auth.TokenResponse "Login successful, token provided"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid form body", err))
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		resp, err := h.service.Login(r.Context(), username, password)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleAIDoctor godoc
// @Summary AI Doctor gate
// @Description Returns a welcome message for the authenticated user.
// @Tags AI Doctor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.WelcomeResponse "Welcome message"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - invalid or missing token"
// @Router /ai_doctor [get]
func (h *Handlers) HandleAIDoctor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := UsernameFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("invalid or expired token", nil))
			return
		}

		writeJSON(w, http.StatusOK, WelcomeResponse{
			Message: fmt.Sprintf("Welcome to AI Doctor, %s!", username),
		})
	}
}

// writeJSON serializes data to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"detail":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError renders any error as the standard {"detail": ...} error shape.
// Errors that are not AppErrors are wrapped as internal errors so nothing
// unexpected leaks to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

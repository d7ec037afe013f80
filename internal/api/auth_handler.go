package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/cloudtask-api/internal/api/shared"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/service/auth"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.FullName, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid user data", err)
		return
	}

	// Hash before storage; the plaintext never leaves this handler.
	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	accessToken, refreshToken, ok := h.generateTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Indistinguishable from a wrong password on purpose
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, ok := h.generateTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshToken handles the /auth/refresh endpoint. It validates the
// presented refresh token and issues a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// The user must still exist for the refresh to succeed.
	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to refresh token", err)
		return
	}

	accessToken, refreshToken, ok := h.generateTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// generateTokenPair issues an access and refresh token, writing an error
// response and returning ok=false on failure.
func (h *AuthHandler) generateTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
) (string, string, bool) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return "", "", false
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return "", "", false
	}

	return accessToken, refreshToken, true
}

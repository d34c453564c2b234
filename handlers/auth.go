package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/models"
	"github.com/alboomhq/alboombackend/repository"
)

const jwtExpiration = 7 * 24 * time.Hour

type AuthHandler struct {
	Photographers repository.PhotographerRepository
	JWTSecret     []byte
}

func NewAuthHandler(photographers repository.PhotographerRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{Photographers: photographers, JWTSecret: []byte(jwtSecret)}
}

type RegisterPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	StudioName string `json:"studioName"`
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message      string              `json:"message"`
	Token        string              `json:"token"`
	Photographer models.Photographer `json:"user"`
	ExpiresAt    time.Time           `json:"expires_at"`
}

// Register creates a photographer account and returns a fresh token so the
// studio can start creating sessions immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Name, email and password are required")
		return
	}

	if _, err := h.Photographers.GetByEmail(payload.Email); err == nil {
		WriteAPIError(w, http.StatusBadRequest, "email_taken", "Email is already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("auth: error checking existing email: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to register")
		return
	}

	photographer := &models.Photographer{
		Name:       payload.Name,
		Email:      payload.Email,
		StudioName: payload.StudioName,
	}
	if err := photographer.SetPassword(payload.Password); err != nil {
		log.Printf("auth: failed to hash password: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to register")
		return
	}

	if err := h.Photographers.Create(photographer); err != nil {
		log.Printf("auth: failed to create photographer: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to register")
		return
	}

	token, expiresAt, err := h.mintToken(photographer)
	if err != nil {
		log.Printf("auth: failed to sign token: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message:      "Account created successfully",
		Token:        token,
		Photographer: *photographer,
		ExpiresAt:    expiresAt,
	})
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	photographer, err := h.Photographers.GetByEmail(payload.Email)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	if !photographer.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	token, expiresAt, err := h.mintToken(photographer)
	if err != nil {
		log.Printf("auth: failed to sign token: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message:      "Login successful",
		Token:        token,
		Photographer: *photographer,
		ExpiresAt:    expiresAt,
	})
}

// CurrentUser returns the authenticated photographer from the request
// context. Must run behind AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	photographer, ok := r.Context().Value(PhotographerContextKey).(*models.Photographer)
	if !ok || photographer == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve account from context")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": photographer})
}

func (h *AuthHandler) mintToken(photographer *models.Photographer) (string, time.Time, error) {
	expiresAt := time.Now().Add(jwtExpiration)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(photographer.ID),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "alboombackend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

package routehandlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/printhub/reporthub/datastore"
	"github.com/printhub/reporthub/mailer"
	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/webutil"
)

const (
	otpDigits   = 6
	otpValidity = 10 * time.Minute
)

// AuthHandler implements passwordless email login: a 6-digit one-time code
// with a 10-minute expiry, consumed exactly once.
type AuthHandler struct {
	OTPRepo  *datastore.OTPRepository
	UserRepo *datastore.UserRepository
	Mailer   mailer.Provider
	BaseURL  string
}

func NewAuthHandler(otpRepo *datastore.OTPRepository, userRepo *datastore.UserRepository, mailProvider mailer.Provider, baseURL string) *AuthHandler {
	return &AuthHandler{
		OTPRepo:  otpRepo,
		UserRepo: userRepo,
		Mailer:   mailProvider,
		BaseURL:  baseURL,
	}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	FullName string `json:"fullName,omitempty"`
}

type verifyOTPResponse struct {
	User       *models.User `json:"user"`
	SessionURL string       `json:"session_url"`
}

func (h *AuthHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) error {
	var req sendOTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return webutil.ErrBadRequest("Email is required")
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	codeHash, err := webutil.GenerateHash(code)
	if err != nil {
		return fmt.Errorf("failed to hash OTP code: %w", err)
	}

	now := time.Now().UTC()
	otp := models.EmailOTP{
		ID:        uuid.NewString(),
		Email:     req.Email,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(otpValidity),
		CreatedAt: now,
	}

	if err := h.OTPRepo.CreateOTP(r.Context(), &otp); err != nil {
		return fmt.Errorf("failed to store OTP for %s: %w", req.Email, err)
	}

	subject, body := mailer.OTPMessage(code)
	if err := h.Mailer.Send(r.Context(), req.Email, subject, body); err != nil {
		return webutil.ErrInternalServerWrap("Failed to send OTP email", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
	return nil
}

func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) error {
	var req verifyOTPRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Email == "" || req.OTP == "" {
		return webutil.ErrBadRequest("Email and OTP are required")
	}

	codeHash, err := webutil.GenerateHash(req.OTP)
	if err != nil {
		return fmt.Errorf("failed to hash submitted OTP: %w", err)
	}

	otp, err := h.OTPRepo.GetActiveOTP(r.Context(), req.Email, codeHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrUnauthorized("Invalid or expired OTP")
		}
		return fmt.Errorf("failed to look up OTP for %s: %w", req.Email, err)
	}

	if err := h.OTPRepo.MarkVerified(r.Context(), otp.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrUnauthorized("Invalid or expired OTP")
		}
		return fmt.Errorf("failed to consume OTP %s: %w", otp.ID, err)
	}

	user, err := h.UserRepo.UpsertUserByEmail(r.Context(), req.Email, req.FullName)
	if err != nil {
		return fmt.Errorf("failed to upsert user for %s: %w", req.Email, err)
	}

	sessionURL := fmt.Sprintf("%s/auth/session?token=%s", h.BaseURL, uuid.NewString())
	webutil.RespondWithJSON(w, http.StatusOK, verifyOTPResponse{User: user, SessionURL: sessionURL})
	return nil
}

// generateOTPCode draws a uniform 6-digit numeric code.
func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/printhub/reporthub/models"
)

type OTPRepository struct {
	db *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) CreateOTP(ctx context.Context, otp *models.EmailOTP) error {
	if _, err := uuid.Parse(otp.ID); err != nil {
		return fmt.Errorf("invalid OTP ID format: %w", err)
	}

	query := `
		INSERT INTO email_otps (id, email, code_hash, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		otp.ID, otp.Email, otp.CodeHash, otp.ExpiresAt, otp.Verified, otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert OTP: %w", err)
	}
	return nil
}

// GetActiveOTP finds an unexpired, unused code matching the given hash for
// the email. Returns sql.ErrNoRows when no such code exists.
func (r *OTPRepository) GetActiveOTP(ctx context.Context, email, codeHash string) (*models.EmailOTP, error) {
	query := `
		SELECT id, email, code_hash, expires_at, verified, created_at
		FROM email_otps
		WHERE email = $1 AND code_hash = $2 AND verified = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	var otp models.EmailOTP
	row := r.db.QueryRowContext(ctx, query, email, codeHash)
	err := row.Scan(&otp.ID, &otp.Email, &otp.CodeHash, &otp.ExpiresAt, &otp.Verified, &otp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get active OTP for %s: %w", email, err)
	}
	return &otp, nil
}

// MarkVerified consumes a code so it cannot be used a second time.
func (r *OTPRepository) MarkVerified(ctx context.Context, otpID string) error {
	if _, err := uuid.Parse(otpID); err != nil {
		return fmt.Errorf("invalid OTP ID format: %w", err)
	}

	query := `UPDATE email_otps SET verified = TRUE WHERE id = $1 AND verified = FALSE`
	result, err := r.db.ExecContext(ctx, query, otpID)
	if err != nil {
		return fmt.Errorf("failed to mark OTP %s verified: %w", otpID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("WARN: Could not get rows affected for OTP update %s: %v", otpID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("OTP not found or already used: %w", sql.ErrNoRows)
	}
	return nil
}

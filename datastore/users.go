package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printhub/reporthub/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := uuid.Parse(user.ID); err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	query := `
		INSERT INTO users (id, created_at, email, full_name)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.CreatedAt, user.Email, user.FullName)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	query := `
		SELECT id, created_at, email, full_name
		FROM users
		WHERE id = $1
	`
	var user models.User
	row := r.db.QueryRowContext(ctx, query, userID)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.Email, &user.FullName); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, created_at, email, full_name
		FROM users
		WHERE email = $1
	`
	var user models.User
	row := r.db.QueryRowContext(ctx, query, email)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.Email, &user.FullName); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// UpsertUserByEmail creates the user on first login and refreshes the full
// name on later ones when a non-empty name is provided.
func (r *UserRepository) UpsertUserByEmail(ctx context.Context, email, fullName string) (*models.User, error) {
	query := `
		INSERT INTO users (id, created_at, email, full_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET full_name = CASE WHEN EXCLUDED.full_name <> '' THEN EXCLUDED.full_name ELSE users.full_name END
		RETURNING id, created_at, email, full_name
	`
	var user models.User
	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), time.Now().UTC(), email, fullName)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.Email, &user.FullName); err != nil {
		return nil, fmt.Errorf("failed to upsert user for email %s: %w", email, err)
	}
	return &user, nil
}

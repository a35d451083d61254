package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/printhub/reporthub/datastore"
	"github.com/printhub/reporthub/models"
	"github.com/printhub/reporthub/webutil"
)

type UserHandler struct {
	Repo *datastore.UserRepository
}

func NewUserHandler(repo *datastore.UserRepository) *UserHandler {
	return &UserHandler{Repo: repo}
}

type createUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	var req createUserRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return webutil.ErrBadRequest("Invalid email address")
	}

	if _, err := h.Repo.GetUserByEmail(r.Context(), req.Email); err == nil {
		return webutil.ErrConflict("Email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check email %s: %w", req.Email, err)
	}

	newUser := models.User{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Email:     req.Email,
		FullName:  req.FullName,
	}

	if err := h.Repo.CreateUser(r.Context(), &newUser); err != nil {
		return fmt.Errorf("failed to create user %s: %w", req.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, newUser)
	return nil
}

func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) error {
	userID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userID); err != nil {
		return webutil.ErrBadRequest("Invalid user ID format")
	}

	user, err := h.Repo.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("User not found")
		}
		return fmt.Errorf("failed to retrieve user %s: %w", userID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

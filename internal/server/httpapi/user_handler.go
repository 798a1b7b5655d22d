package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sollog/internal/common"
	"sollog/internal/server/models"
	"sollog/internal/server/services"
)

// UserProvider is the slice of the user service the handlers need.
type UserProvider interface {
	Register(ctx context.Context, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error)
}

type UserHandler struct {
	users UserProvider
}

func NewUserHandler(users UserProvider) *UserHandler {
	return &UserHandler{users: users}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileRequest struct {
	Username    string `json:"username"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Location    string `json:"location"`
}

type userResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Location        string `json:"location,omitempty"`
	ProfileComplete bool   `json:"profileComplete"`
	CreatedAt       string `json:"createdAt"`
}

func userView(u *models.User) userResponse {
	resp := userResponse{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		Location:        u.Location,
		ProfileComplete: u.ProfileComplete,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

func decodeCredentials(r *http.Request) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	return &req, nil
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.users.Register(r.Context(), req.Email, []byte(req.Password))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, []byte(req.Password))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.Me(w, r)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		var err error
		dob, err = time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", common.ErrValidation))
			return
		}
	}

	user, err := h.users.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), services.ProfileUpdate{
		Username:    req.Username,
		DateOfBirth: dob,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

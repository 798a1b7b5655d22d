package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"sollog/internal/common"
	"sollog/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps a single upload request. Diary clips are short; this
// is a server-protection limit, not a product one.
const maxUploadBytes = 256 << 20

// VideoProvider is the slice of the video service the handlers need.
type VideoProvider interface {
	Upload(ctx context.Context, userID string, ciphertext []byte, ivHex, jwk, title string) (*services.UploadResult, error)
	List(ctx context.Context, userID string) ([]*services.VideoView, error)
	Get(ctx context.Context, userID, id string) (*services.VideoView, error)
	UpdateTitle(ctx context.Context, userID, id, title string) (*services.VideoView, error)
	Delete(ctx context.Context, userID, id string) error
}

type VideoHandler struct {
	videos VideoProvider
}

func NewVideoHandler(videos VideoProvider) *VideoHandler {
	return &VideoHandler{videos: videos}
}

type uploadResponse struct {
	ID             string `json:"id"`
	SequenceNumber int64  `json:"sequenceNumber"`
}

type renameRequest struct {
	Title string `json:"title"`
}

// Upload accepts a multipart form with the ciphertext under "file" and the
// key material under "iv" (hex) and "jwk" (JSON), plus an optional "title".
// The payload is stored exactly as received; the server never inspects or
// decrypts it.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, fmt.Errorf("%w: malformed multipart form", common.ErrValidation))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing file part", common.ErrValidation))
		return
	}
	defer file.Close()

	ciphertext, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("%w: unreadable file part", common.ErrValidation))
		return
	}

	res, err := h.videos.Upload(r.Context(), UserIDFromContext(r.Context()),
		ciphertext, r.FormValue("iv"), r.FormValue("jwk"), r.FormValue("title"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{ID: res.ID, SequenceNumber: res.SequenceNumber})
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.videos.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if views == nil {
		views = []*services.VideoView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.videos.Get(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *VideoHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	view, err := h.videos.UpdateTitle(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.videos.Delete(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

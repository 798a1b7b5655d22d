// Package services implements the client-side diary operations: encrypting
// a capture before upload, and fetching plus decrypting an entry for
// playback. Plaintext never leaves the device; the key material travels to
// the server only so it can be handed back at retrieval.
package services

import (
	"context"
	"fmt"

	"sollog/internal/client/api"
	"sollog/internal/common"
	"sollog/internal/cryptox"
)

// Backend is the slice of the API client this service needs. *api.Client
// satisfies it.
type Backend interface {
	Upload(ctx context.Context, ciphertext []byte, ivHex, jwk, title string) (*api.UploadResult, error)
	List(ctx context.Context) ([]*api.VideoView, error)
	Get(ctx context.Context, id string) (*api.VideoView, error)
	Rename(ctx context.Context, id, title string) (*api.VideoView, error)
	Delete(ctx context.Context, id string) error
	FetchCiphertext(ctx context.Context, url string) ([]byte, error)
}

type DiaryService interface {
	Upload(ctx context.Context, plaintext []byte, title string) (*api.UploadResult, error)
	List(ctx context.Context) ([]*api.VideoView, error)
	Play(ctx context.Context, id string) ([]byte, *api.VideoView, error)
	Rename(ctx context.Context, id, title string) (*api.VideoView, error)
	Delete(ctx context.Context, id string) error
}

type diaryService struct {
	backend Backend
}

func NewDiaryService(backend Backend) DiaryService {
	return &diaryService{backend: backend}
}

// Upload encrypts the capture under a fresh one-time key and sends the
// ciphertext with the exported key material. The key is wiped locally once
// the upload finishes; from then on the server's copy is the only one.
func (s *diaryService) Upload(ctx context.Context, plaintext []byte, title string) (*api.UploadResult, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("%w: nothing to upload", common.ErrValidation)
	}

	key, err := cryptox.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("key generation error: %w", err)
	}
	defer key.Wipe()

	iv, err := cryptox.GenerateIV()
	if err != nil {
		return nil, fmt.Errorf("iv generation error: %w", err)
	}

	ciphertext, err := cryptox.Encrypt(plaintext, key, iv)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	jwk, err := cryptox.ExportKey(key)
	if err != nil {
		return nil, fmt.Errorf("key export error: %w", err)
	}

	return s.backend.Upload(ctx, ciphertext, cryptox.EncodeIV(iv), jwk, title)
}

func (s *diaryService) List(ctx context.Context) ([]*api.VideoView, error) {
	return s.backend.List(ctx)
}

// Play fetches one entry's ciphertext and decrypts it with the returned key
// material. A decryption failure is terminal and never retried; retrying tag
// verification with the same inputs cannot succeed, so the caller must show
// it as "unable to decrypt", distinct from a network error.
func (s *diaryService) Play(ctx context.Context, id string) ([]byte, *api.VideoView, error) {
	view, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err := s.backend.FetchCiphertext(ctx, view.FetchURL)
	if err != nil {
		return nil, nil, err
	}

	key, err := cryptox.ImportKey(view.JWK)
	if err != nil {
		return nil, nil, err
	}
	defer key.Wipe()

	iv, err := cryptox.DecodeIV(view.IV)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := cryptox.Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, nil, err
	}
	return plaintext, view, nil
}

func (s *diaryService) Rename(ctx context.Context, id, title string) (*api.VideoView, error) {
	return s.backend.Rename(ctx, id, title)
}

func (s *diaryService) Delete(ctx context.Context, id string) error {
	return s.backend.Delete(ctx, id)
}

package services

import (
	"context"
	"errors"
	"testing"

	"sollog/internal/client/api"
	"sollog/internal/common"
	"sollog/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stores uploads in memory and plays them back the way the
// server would: ciphertext behind a fetch URL, key material in the view.
type fakeBackend struct {
	entries map[string]*api.VideoView
	blobs   map[string][]byte
	nextID  int

	fetchErr error
	tamper   bool // flip a ciphertext byte before returning it
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{entries: map[string]*api.VideoView{}, blobs: map[string][]byte{}}
}

func (f *fakeBackend) Upload(ctx context.Context, ciphertext []byte, ivHex, jwk, title string) (*api.UploadResult, error) {
	f.nextID++
	id := "vid-" + string(rune('0'+f.nextID))
	f.entries[id] = &api.VideoView{
		ID:       id,
		Title:    title,
		FetchURL: "https://blobs.test/" + id,
		IV:       ivHex,
		JWK:      jwk,
	}
	f.blobs[id] = append([]byte(nil), ciphertext...)
	return &api.UploadResult{ID: id, SequenceNumber: int64(f.nextID)}, nil
}

func (f *fakeBackend) List(ctx context.Context) ([]*api.VideoView, error) {
	var out []*api.VideoView
	for _, v := range f.entries {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeBackend) Get(ctx context.Context, id string) (*api.VideoView, error) {
	if v, ok := f.entries[id]; ok {
		return v, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeBackend) Rename(ctx context.Context, id, title string) (*api.VideoView, error) {
	v, ok := f.entries[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	v.Title = title
	return v, nil
}

func (f *fakeBackend) Delete(ctx context.Context, id string) error {
	if _, ok := f.entries[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.entries, id)
	delete(f.blobs, id)
	return nil
}

func (f *fakeBackend) FetchCiphertext(ctx context.Context, url string) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for id, blob := range f.blobs {
		if url == "https://blobs.test/"+id {
			out := append([]byte(nil), blob...)
			if f.tamper {
				out[0] ^= 0xff
			}
			return out, nil
		}
	}
	return nil, common.ErrStorageRead
}

func TestUploadPlayRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	svc := NewDiaryService(backend)
	ctx := context.Background()

	plaintext := []byte("hello-video")
	res, err := svc.Upload(ctx, plaintext, "Test")
	require.NoError(t, err)

	// Only ciphertext reached the backend.
	assert.NotEqual(t, plaintext, backend.blobs[res.ID])

	got, view, err := svc.Play(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
	assert.Equal(t, "Test", view.Title)
}

func TestUpload_FreshKeyPerEntry(t *testing.T) {
	backend := newFakeBackend()
	svc := NewDiaryService(backend)
	ctx := context.Background()

	a, err := svc.Upload(ctx, []byte("same plaintext"), "")
	require.NoError(t, err)
	b, err := svc.Upload(ctx, []byte("same plaintext"), "")
	require.NoError(t, err)

	assert.NotEqual(t, backend.entries[a.ID].JWK, backend.entries[b.ID].JWK)
	assert.NotEqual(t, backend.entries[a.ID].IV, backend.entries[b.ID].IV)
	assert.NotEqual(t, backend.blobs[a.ID], backend.blobs[b.ID])
}

func TestUpload_EmptyPayload(t *testing.T) {
	svc := NewDiaryService(newFakeBackend())
	_, err := svc.Upload(context.Background(), nil, "x")
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestPlay_TamperedCiphertext(t *testing.T) {
	backend := newFakeBackend()
	svc := NewDiaryService(backend)
	ctx := context.Background()

	res, err := svc.Upload(ctx, []byte("payload"), "")
	require.NoError(t, err)

	// A flipped ciphertext byte fails tag verification. This must surface
	// as an authentication failure, not a network error.
	backend.tamper = true
	_, _, err = svc.Play(ctx, res.ID)
	assert.True(t, errors.Is(err, common.ErrAuthentication))
}

func TestPlay_NetworkErrorIsDistinct(t *testing.T) {
	backend := newFakeBackend()
	svc := NewDiaryService(backend)
	ctx := context.Background()

	res, err := svc.Upload(ctx, []byte("payload"), "")
	require.NoError(t, err)

	backend.fetchErr = common.ErrStorageRead
	_, _, err = svc.Play(ctx, res.ID)
	assert.True(t, errors.Is(err, common.ErrStorageRead))
	assert.False(t, errors.Is(err, common.ErrAuthentication))
}

func TestPlay_CorruptedKeyMaterial(t *testing.T) {
	backend := newFakeBackend()
	svc := NewDiaryService(backend)
	ctx := context.Background()

	res, err := svc.Upload(ctx, []byte("payload"), "")
	require.NoError(t, err)

	backend.entries[res.ID].JWK = `{"kty":"oct","alg":"A128GCM","k":"x"}`
	_, _, err = svc.Play(ctx, res.ID)
	assert.True(t, errors.Is(err, common.ErrKeyFormat))
}

func TestPlay_WrongKeyFailsAuthentication(t *testing.T) {
	backend := newFakeBackend()
	svc := NewDiaryService(backend)
	ctx := context.Background()

	res, err := svc.Upload(ctx, []byte("payload"), "")
	require.NoError(t, err)

	// Swap in a different, well-formed key.
	other, err := cryptox.GenerateKey()
	require.NoError(t, err)
	otherJWK, err := cryptox.ExportKey(other)
	require.NoError(t, err)
	backend.entries[res.ID].JWK = otherJWK

	_, _, err = svc.Play(ctx, res.ID)
	assert.True(t, errors.Is(err, common.ErrAuthentication))
}

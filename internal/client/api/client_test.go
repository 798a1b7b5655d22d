package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sollog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		var req credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(tokenResponse{Token: "tok-123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.False(t, c.IsAuthenticated())
	require.NoError(t, c.Register(context.Background(), "a@b.c", []byte("password")))
	assert.True(t, c.IsAuthenticated())
}

func TestBearerAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(tokenResponse{Token: "tok-123"})
		case "/api/videos":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]*VideoView{})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.Login(context.Background(), "a@b.c", []byte("password")))
	_, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrValidation},
		{http.StatusUnauthorized, common.ErrUnauthorized},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusConflict, common.ErrAlreadyExists},
		{http.StatusInternalServerError, common.ErrInternal},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(errorResponse{Error: "nope"})
		}))

		c := NewClient(srv.URL)
		_, err := c.Get(context.Background(), "some-id")
		assert.True(t, errors.Is(err, tt.want), "status %d: got %v", tt.status, err)
		srv.Close()
	}
}

func TestUpload_SendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "aabbccddeeff00112233aabb", r.FormValue("iv"))
		assert.Equal(t, "Test", r.FormValue("title"))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(UploadResult{ID: "vid-1", SequenceNumber: 7})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Upload(context.Background(), []byte("ciphertext"), "aabbccddeeff00112233aabb", `{"kty":"oct"}`, "Test")
	require.NoError(t, err)
	assert.Equal(t, "vid-1", res.ID)
	assert.Equal(t, int64(7), res.SequenceNumber)
}

func TestFetchCiphertext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("raw ciphertext"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	data, err := c.FetchCiphertext(context.Background(), srv.URL+"/blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw ciphertext"), data)

	// An expired or denied URL is a storage read failure, not an auth one.
	_, err = c.FetchCiphertext(context.Background(), srv.URL+"/missing")
	assert.True(t, errors.Is(err, common.ErrStorageRead))
}

package network

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", time.Second)
	assert.ErrorIs(t, err, ErrNoBaseURL)

	c, err := NewClient("http://api.local/", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://api.local", c.BaseURL)
	assert.Equal(t, "http://api.local/x", c.URL("x"))
	assert.Equal(t, "http://api.local/x", c.URL("/x"))
	assert.Equal(t, "https://cdn/y", c.URL("https://cdn/y"))
}

func TestClient_PostJSONSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["v"]})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	c.SetToken("tok")

	var out map[string]string
	require.NoError(t, c.PostJSON(context.Background(), "/echo", map[string]string{"v": "hi"}, &out))
	assert.Equal(t, "hi", out["echo"])
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"mapping conflict"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, time.Second)
	err := c.GetJSON(context.Background(), "/x", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "mapping conflict", ServerMessage(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_PostMultipart(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.xlsx")
	require.NoError(t, os.WriteFile(p, []byte("sheet"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "a.xlsx", files[0].Filename)
		_ = json.NewEncoder(w).Encode(map[string]int{"count": len(files)})
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, time.Second)
	var out map[string]int
	require.NoError(t, c.PostMultipart(context.Background(), "/up", []FilePart{{Field: "files", Path: p}}, &out))
	assert.Equal(t, 1, out["count"])
}

func TestClient_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			_, _ = w.Write([]byte(`{"error":"link expired"}`))
			return
		}
		_, _ = io.WriteString(w, "payload")
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, time.Second)
	dest := filepath.Join(t.TempDir(), "out", "f.xlsx")

	n, err := c.Download(context.Background(), http.MethodGet, "/ok", nil, dest)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
	b, _ := os.ReadFile(dest)
	assert.Equal(t, "payload", string(b))

	_, err = c.Download(context.Background(), http.MethodGet, "/gone", nil, dest+"2")
	assert.ErrorIs(t, err, ErrLinkExpired)
	_, statErr := os.Stat(dest + "2")
	assert.True(t, os.IsNotExist(statErr))
}

package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePayload = []byte(`{"keys":{"n":3,"k":2},"1":{"base":"10","value":"3"},"2":{"base":"10","value":"5"},"3":{"base":"10","value":"7"}}`)

// exerciseBackend checks the contract every writable backend must meet.
func exerciseBackend(t *testing.T, b interfaces.StorageBackend) {
	ctx := context.Background()
	require.True(t, b.Available(ctx))

	id, err := b.Store(ctx, samplePayload, interfaces.PayloadType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(samplePayload), id)

	data, err := b.Fetch(ctx, id, interfaces.PayloadType)
	require.NoError(t, err)
	assert.Equal(t, samplePayload, data)

	_, err = b.Fetch(ctx, id, interfaces.ReportType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound, "content types are separate namespaces")

	_, err = b.Fetch(ctx, interfaces.ComputeID([]byte("missing")), interfaces.PayloadType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	again, err := b.Store(ctx, samplePayload, interfaces.PayloadType)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir, discardLogger())
	require.NoError(t, err)

	exerciseBackend(t, b)
	assert.Equal(t, "file://"+dir, b.LocationURI())

	id := interfaces.ComputeID(samplePayload)
	path := filepath.Join(dir, "payload", id.String())
	require.FileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o600))
	_, err = b.Fetch(context.Background(), id, interfaces.PayloadType)
	assert.ErrorIs(t, err, ErrContentMismatch)

	_, err = NewFileBackend("", discardLogger())
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestBadgerBackend(t *testing.T) {
	t.Run("in memory", func(t *testing.T) {
		b, err := NewBadgerBackend("", true, discardLogger())
		require.NoError(t, err)
		exerciseBackend(t, b)

		require.NoError(t, b.Close())
		assert.False(t, b.Available(context.Background()))
	})

	t.Run("on disk survives reopen", func(t *testing.T) {
		dir := t.TempDir()
		b, err := NewBadgerBackend(dir, false, discardLogger())
		require.NoError(t, err)
		exerciseBackend(t, b)
		require.NoError(t, b.Close())

		b, err = NewBadgerBackend(dir, false, discardLogger())
		require.NoError(t, err)
		defer b.Close()

		data, err := b.Fetch(context.Background(), interfaces.ComputeID(samplePayload), interfaces.PayloadType)
		require.NoError(t, err)
		assert.Equal(t, samplePayload, data)
	})
}

func TestGitHubBackend(t *testing.T) {
	id := interfaces.ComputeID(samplePayload)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/shares", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"shares"}`))
	})
	mux.HandleFunc("/repos/acme/shares/contents/archive/payload/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		encoded := base64.StdEncoding.EncodeToString(samplePayload)
		w.Write([]byte(`{"type":"file","encoding":"base64","content":"` + encoded[:10] + `\n` + encoded[10:] + `"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b := NewGitHubBackend("acme", "shares", "archive", "main", "secret-token", discardLogger()).WithAPIBase(srv.URL)
	ctx := context.Background()

	assert.True(t, b.Available(ctx))

	data, err := b.Fetch(ctx, id, interfaces.PayloadType)
	require.NoError(t, err)
	assert.Equal(t, samplePayload, data)

	_, err = b.Fetch(ctx, id, interfaces.ReportType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	_, err = b.Store(ctx, samplePayload, interfaces.PayloadType)
	assert.ErrorIs(t, err, interfaces.ErrReadOnlyBackend)

	assert.Equal(t, "github://acme/shares/archive?ref=main", b.LocationURI())

	missing := NewGitHubBackend("acme", "missing", "", "", "", discardLogger()).WithAPIBase(srv.URL)
	assert.False(t, missing.Available(ctx))
}

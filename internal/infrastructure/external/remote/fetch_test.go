package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audio.m4a":
			w.Header().Set("Content-Type", "audio/mp4; charset=binary")
			_, _ = w.Write([]byte("audio-bytes"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	ctx := context.Background()

	res, err := f.Fetch(ctx, srv.URL+"/audio.m4a", 1024)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), res.Data)
	assert.Equal(t, "audio/mp4", res.ContentType)

	_, err = f.Fetch(ctx, srv.URL+"/missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.Fetch(ctx, srv.URL+"/big", 16)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = f.Fetch(ctx, srv.URL+"/boom", 0)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

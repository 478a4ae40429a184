package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "school/1.0", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/la":
			_, _ = w.Write([]byte("<html><head><title> Linear\n algebra </title></head></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, nil)
	page, err := f.Fetch(context.Background(), srv.URL+"/la")
	require.NoError(t, err)
	assert.Equal(t, "Linear algebra", Title(page))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
}

func TestFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewFetcher(0, nil).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "", Title("plain text"))
	assert.Equal(t, "Kurz", Title("<title>Kurz</title><body><title>x</title></body>"))
}

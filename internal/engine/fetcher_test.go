package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
)

// MockFetcher simulates the network layer.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	expectedUser := "alice"
	expectedPass := "s3cret"
	expectedBody := "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nEND:VCARD"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, expectedUser, user)
		assert.Equal(t, expectedPass, pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, expectedUser, expectedPass)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

func TestHTTPFetcher_Fetch_NoAuthWhenAnonymous(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	_ = rc.Close()
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")

			require.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), config.ErrFetchStatus)
		})
	}
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := engine.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_Fetch_InvalidURL(t *testing.T) {
	_, err := engine.NewHTTPFetcher().Fetch(context.Background(), string([]byte{0x7f}), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

func TestHTTPFetcher_Fetch_ProtocolSecurity(t *testing.T) {
	_, err := engine.NewHTTPFetcher().Fetch(context.Background(), "ftp://example.com/book.vcf", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, engine.IsRemote("https://dav.example.com/book"))
	assert.True(t, engine.IsRemote("HTTP://example.com/a.vcf"))
	assert.False(t, engine.IsRemote("/home/me/contacts.vcf"))
	assert.False(t, engine.IsRemote("contacts.vcf"))
}

func TestOpenAddressBook(t *testing.T) {
	t.Run("LocalFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "book.vcf")
		require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCARD"), 0600))

		rc, err := engine.OpenAddressBook(context.Background(), nil, path, "", "")
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "BEGIN:VCARD", string(data))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := engine.OpenAddressBook(context.Background(), nil, filepath.Join(t.TempDir(), "nope.vcf"), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrImportOpen)
	})

	t.Run("EmptyLocation", func(t *testing.T) {
		_, err := engine.OpenAddressBook(context.Background(), nil, "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrImportSource)
	})

	t.Run("RemoteUsesFetcher", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("Fetch", mock.Anything, "https://dav.example.com/book", "bob", "pw").
			Return(io.NopCloser(strings.NewReader("data")), nil)

		rc, err := engine.OpenAddressBook(context.Background(), fetcher, "https://dav.example.com/book", "bob", "pw")
		require.NoError(t, err)
		_ = rc.Close()
		fetcher.AssertExpectations(t)
	})

	t.Run("RemoteWithoutFetcher", func(t *testing.T) {
		_, err := engine.OpenAddressBook(context.Background(), nil, "https://dav.example.com/book", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrFetcherMissing)
	})
}

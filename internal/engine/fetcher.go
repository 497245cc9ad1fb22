package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/tartampluch/go-anniversary/internal/config"
)

// Fetcher retrieves an address book (vCard stream) to import from.
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads address books over HTTP(S), e.g. a CardDAV export URL.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with the default request timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads the address book. The body is capped at
// config.MaxHTTPResponseSize. Query strings are never logged.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchBadStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, resp.Status)
	}

	log.Info(config.MsgFetchStarted, slog.Int64(config.LogKeySizeBytes, resp.ContentLength))
	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

type limitedReadCloser struct {
	io.Reader
	io.Closer
}

// IsRemote reports whether location names an HTTP(S) resource rather than a file.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, config.SchemeHTTP+"://") || strings.HasPrefix(lower, config.SchemeHTTPS+"://")
}

// OpenAddressBook opens a local vCard file, or downloads it with f when
// location is a URL.
func OpenAddressBook(ctx context.Context, f Fetcher, location, user, pass string) (io.ReadCloser, error) {
	if location == "" {
		return nil, fmt.Errorf("%s", config.ErrImportSource)
	}
	if IsRemote(location) {
		if f == nil {
			return nil, fmt.Errorf("%s", config.ErrFetcherMissing)
		}
		return f.Fetch(ctx, location, user, pass)
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrImportOpen, err)
	}
	return file, nil
}

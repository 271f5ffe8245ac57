package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
	"github.com/zalando/go-keyring"
)

// RemoteBook downloads a vCard address book over HTTP(S) and decodes it.
// When User is set, its password is looked up on every download.
type RemoteBook struct {
	Client *http.Client
	User   string

	// Password returns the secret stored for user under service.
	Password func(service, user string) (string, error)

	// MaxBytes caps the body. A larger book is rejected rather than truncated,
	// since a cut-off stream would import only part of the cards.
	MaxBytes int64
}

// NewRemoteBook wires the HTTP client and the OS keyring for user.
func NewRemoteBook(user string) *RemoteBook {
	return &RemoteBook{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		User:     user,
		Password: keyring.Get,
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// IsRemote reports whether source is an http or https URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	return err == nil && isHTTP(u)
}

func isHTTP(u *url.URL) bool {
	return u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS
}

// Fetch downloads the book at rawURL and decodes it like a local import.
// Query strings are left out of the logs since they may carry tokens.
func (rb *RemoteBook) Fetch(ctx context.Context, rawURL string) (*phonebook.Directory, Stats, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if !isHTTP(u) {
		return nil, Stats{}, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.DebugContext(ctx, config.MsgFetchStart)

	body, err := rb.download(ctx, log, rawURL)
	if err != nil {
		return nil, Stats{}, err
	}

	dir, stats, err := Decode(bytes.NewReader(body))
	if err != nil {
		return nil, stats, err
	}

	log.InfoContext(ctx, config.MsgFetchDone,
		slog.Int(config.LogKeySizeBytes, len(body)),
		slog.Int(config.LogKeyTotal, stats.Total),
		slog.Int(config.LogKeySkipped, stats.Skipped),
	)
	return dir, stats, nil
}

// download reads the whole body so a too-large book fails before any card is decoded.
func (rb *RemoteBook) download(ctx context.Context, log *slog.Logger, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCard)
	if rb.User != "" {
		req.SetBasicAuth(rb.User, rb.password(ctx))
	}

	client := rb.Client
	if client == nil {
		client = &http.Client{Timeout: config.HTTPTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.WarnContext(ctx, config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	limit := rb.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("%s: %d bytes", config.ErrFetchTooLarge, resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%s: more than %d bytes", config.ErrFetchTooLarge, limit)
	}
	return body, nil
}

// password falls back to an empty secret when the keyring has none.
func (rb *RemoteBook) password(ctx context.Context) string {
	if rb.Password == nil {
		return ""
	}
	p, err := rb.Password(config.KeyringService, rb.User)
	if err != nil {
		slog.DebugContext(ctx, config.MsgPassFail,
			config.LogKeyComponent, config.CompFetcher,
			config.LogKeyUser, rb.User,
			config.LogKeyError, err)
		return ""
	}
	return p
}

package storage_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

const remoteCards = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ann\r\nTEL:111\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Bob\r\nTEL:222\r\nEMAIL:bob@x.com\r\nEND:VCARD\r\n"

// serveCards answers every request with body after running check on it.
func serveCards(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRemoteBook_Fetch_KeyringCredentials(t *testing.T) {
	ts := serveCards(t, remoteCards, func(r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, "ann", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.Equal(t, config.MimeVCard, r.Header.Get(config.HeaderAccept))
	})

	var lookups int
	rb := storage.NewRemoteBook("ann")
	rb.Password = func(service, user string) (string, error) {
		lookups++
		assert.Equal(t, config.KeyringService, service)
		assert.Equal(t, "ann", user)
		return "s3cret", nil
	}

	dir, stats, err := rb.Fetch(context.Background(), ts.URL+"/book.vcf?token=x")
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{Total: 2}, stats)
	assert.Equal(t, 2, dir.Len())

	bob, err := dir.Get("Bob")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", string(bob.Emails()[0]))
	assert.Equal(t, 1, lookups)
}

func TestRemoteBook_Fetch_KeyringFailureSendsEmptyPassword(t *testing.T) {
	ts := serveCards(t, remoteCards, func(r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ann", user)
		assert.Empty(t, pass)
	})

	rb := storage.NewRemoteBook("ann")
	rb.Password = func(string, string) (string, error) { return "", errors.New("no keyring") }

	_, _, err := rb.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
}

func TestRemoteBook_Fetch_AnonymousSkipsKeyring(t *testing.T) {
	ts := serveCards(t, remoteCards, func(r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok, "No credentials without a configured user")
	})

	rb := storage.NewRemoteBook("")
	rb.Password = func(string, string) (string, error) {
		t.Error("Keyring must not be queried without a user")
		return "", nil
	}

	_, _, err := rb.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
}

func TestRemoteBook_Fetch_RepeatedNamesAreSkipped(t *testing.T) {
	body := remoteCards + "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ann\r\nTEL:999\r\nEND:VCARD\r\n"
	ts := serveCards(t, body, nil)

	dir, stats, err := storage.NewRemoteBook("").Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{Total: 3, Skipped: 1}, stats)

	ann, err := dir.Get("Ann")
	require.NoError(t, err)
	assert.Equal(t, "111", string(ann.Phones()[0]), "The first card with a name wins")
}

func TestRemoteBook_Fetch_TooLarge(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"Declared length", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(remoteCards))
		}},
		{"Chunked body", func(w http.ResponseWriter, _ *http.Request) {
			for _, line := range strings.SplitAfter(remoteCards, "\r\n") {
				_, _ = w.Write([]byte(line))
				w.(http.Flusher).Flush()
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			rb := storage.NewRemoteBook("")
			rb.MaxBytes = 32

			dir, _, err := rb.Fetch(context.Background(), ts.URL)
			require.Error(t, err)
			assert.Nil(t, dir, "A cut-off book must not be partly imported")
			assert.Contains(t, err.Error(), config.ErrFetchTooLarge)
		})
	}
}

func TestRemoteBook_Fetch_Status(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			_, _, err := storage.NewRemoteBook("").Fetch(context.Background(), ts.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrFetchStatus)
			assert.Contains(t, err.Error(), http.StatusText(code))
		})
	}
}

func TestRemoteBook_Fetch_NotAnAddressBook(t *testing.T) {
	ts := serveCards(t, "<html>login</html>", nil)

	_, _, err := storage.NewRemoteBook("").Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrVCardParse)
}

func TestRemoteBook_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(remoteCards))
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err := storage.NewRemoteBook("").Fetch(ctx, ts.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemoteBook_Fetch_RejectsSource(t *testing.T) {
	rb := storage.NewRemoteBook("")

	_, _, err := rb.Fetch(context.Background(), "ftp://example.com/file.vcf")
	assert.ErrorContains(t, err, config.ErrProtocol)

	_, _, err = rb.Fetch(context.Background(), string([]byte{0x7f}))
	assert.ErrorContains(t, err, config.ErrInvalidURL)
}

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/config"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleICS = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"

func serve(t *testing.T, srv *CalendarServer, r *http.Request) *http.Response {
	t.Helper()
	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, r)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandler_ServesPublishedFeed(t *testing.T) {
	srv := NewCalendarServer("0")
	srv.Publish([]byte(sampleICS))

	resp := serve(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, sampleICS, string(body))
}

func TestHandler_ConditionalRequests(t *testing.T) {
	srv := NewCalendarServer("0")
	srv.Publish([]byte("v1"))

	first := serve(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	etag := first.Header.Get(config.HeaderETag)
	lastMod := first.Header.Get(config.HeaderLastModified)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"MatchingETag", config.HeaderIfNoneMatch, etag, http.StatusNotModified},
		{"StaleETag", config.HeaderIfNoneMatch, `"other"`, http.StatusOK},
		{"SameModTime", config.HeaderIfModifiedSince, lastMod, http.StatusNotModified},
		{"OldModTime", config.HeaderIfModifiedSince, "Mon, 02 Jan 2006 15:04:05 GMT", http.StatusOK},
		{"GarbageModTime", config.HeaderIfModifiedSince, "yesterday", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, tt.value)
			assert.Equal(t, tt.want, serve(t, srv, req).StatusCode)
		})
	}
}

func TestPublish_SameContentKeepsValidators(t *testing.T) {
	srv := NewCalendarServer("0")
	srv.Publish([]byte("v1"))
	before := srv.current.Load()

	srv.Publish([]byte("v1"))
	assert.Same(t, before, srv.current.Load())

	srv.Publish([]byte("v2"))
	assert.NotEqual(t, before.etag, srv.current.Load().etag)
}

func TestHandler_NotReadyAndMethods(t *testing.T) {
	srv := NewCalendarServer("0")

	resp := serve(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))

	srv.Publish([]byte(sampleICS))

	resp = serve(t, srv, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))

	resp = serve(t, srv, httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

// Run with -race.
func TestServer_ConcurrentPublishAndRead(t *testing.T) {
	srv := NewCalendarServer("0")
	var wg sync.WaitGroup
	end := time.Now().Add(200 * time.Millisecond)

	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Publish(fmt.Appendf(nil, "VERSION:%d-%d", w, i))
			}
		}()
	}
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				rec := httptest.NewRecorder()
				srv.handleCalendarRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
				if rec.Code != http.StatusOK && rec.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status %d", rec.Code)
				}
			}
		}()
	}
	wg.Wait()
}

func TestServer_Lifecycle(t *testing.T) {
	ln, err := net.Listen("tcp", config.LocalhostBindAddr+":0")
	require.NoError(t, err)

	srv := NewCalendarServer("")
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/"
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

	require.Eventually(t, func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusServiceUnavailable
	}, 2*time.Second, 20*time.Millisecond)

	srv.Publish([]byte(sampleICS))

	resp, err := client.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sampleICS, string(body))

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timed out")
	}
}

func TestServer_StartRequiresPort(t *testing.T) {
	err := NewCalendarServer("").Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}

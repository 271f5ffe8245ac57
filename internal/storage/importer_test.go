package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

// MockRemote stands in for the HTTP address book.
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Fetch(ctx context.Context, url string) (*phonebook.Directory, storage.Stats, error) {
	args := m.Called(ctx, url)
	dir, _ := args.Get(0).(*phonebook.Directory)
	return dir, args.Get(1).(storage.Stats), args.Error(2)
}

const localCards = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Bob\r\nTEL:222\r\nEND:VCARD\r\n"

func TestIsRemote(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://dav.example.com/book.vcf", true},
		{"http://example.com/x.vcf", true},
		{"ftp://example.com/x.vcf", false},
		{"book.vcf", false},
		{"/home/ann/contacts.vcf", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.IsRemote(tt.source))
		})
	}
}

func TestImporter_RemoteSourceGoesToRemote(t *testing.T) {
	remoteDir := phonebook.NewDirectory()
	require.NoError(t, remoteDir.Add(phonebook.NewRecord("Bob", "222")))

	remote := new(MockRemote)
	remote.On("Fetch", mock.Anything, "https://dav.example.com/book.vcf").
		Return(remoteDir, storage.Stats{Total: 2, Skipped: 1}, nil)

	im := &storage.Importer{Remote: remote}
	dir, stats, err := im.Import(context.Background(), "https://dav.example.com/book.vcf")
	require.NoError(t, err)
	assert.True(t, dir.Has("Bob"))
	assert.Equal(t, storage.Stats{Total: 2, Skipped: 1}, stats, "Skips reported by the remote reach the caller")
	remote.AssertExpectations(t)
}

func TestImporter_RemoteError(t *testing.T) {
	remote := new(MockRemote)
	remote.On("Fetch", mock.Anything, mock.Anything).Return(nil, storage.Stats{}, errors.New("boom"))

	im := &storage.Importer{Remote: remote}
	_, _, err := im.Import(context.Background(), "https://example.com/x.vcf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrImportSource)
	assert.Contains(t, err.Error(), "boom")
}

func TestImporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	remote := new(MockRemote)
	remote.On("Fetch", mock.Anything, mock.Anything).Return(nil, storage.Stats{}, errors.New("request aborted"))

	im := &storage.Importer{Remote: remote}
	_, _, err := im.Import(ctx, "https://example.com/x.vcf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImporter_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.vcf")
	require.NoError(t, os.WriteFile(path, []byte(localCards+localCards), config.FilePermUserRW))

	remote := new(MockRemote)
	im := &storage.Importer{Remote: remote}
	dir, stats, err := im.Import(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, dir.Has("Bob"))
	assert.Equal(t, storage.Stats{Total: 2, Skipped: 1}, stats, "Repeated names are skipped")
	remote.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)

	_, _, err = im.Import(context.Background(), filepath.Join(t.TempDir(), "missing.vcf"))
	assert.ErrorContains(t, err, config.ErrImportSource)

	_, _, err = im.Import(context.Background(), "")
	assert.ErrorContains(t, err, config.ErrSourceEmpty)
}

func TestImporter_MissingRemote(t *testing.T) {
	im := &storage.Importer{}
	_, _, err := im.Import(context.Background(), "https://example.com/x.vcf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrFetcherMissing)
}
